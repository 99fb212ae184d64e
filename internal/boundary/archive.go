package boundary

import (
	"archive/zip"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// LoadArchive reads a ZIP archive holding exactly one boundary source, a
// .shp with its sidecar files or a .geojson file, as distributed by the
// Census TIGER/Line downloads.
func LoadArchive(zipPath string) (*Collection, error) {
	dir, err := os.MkdirTemp("", "boundary-*")
	if err != nil {
		return nil, eris.Wrap(err, "boundary: create temp dir")
	}
	defer os.RemoveAll(dir) //nolint:errcheck

	extracted, err := extractZIP(zipPath, dir)
	if err != nil {
		return nil, err
	}

	var sources []string
	for _, p := range extracted {
		switch strings.ToLower(filepath.Ext(p)) {
		case ".shp", ".geojson", ".json":
			sources = append(sources, p)
		}
	}
	if len(sources) != 1 {
		return nil, eris.Errorf("boundary: archive %s: expected exactly 1 .shp or .geojson file, got %d", zipPath, len(sources))
	}

	zap.L().Debug("boundary: loading from archive",
		zap.String("archive", zipPath),
		zap.String("entry", filepath.Base(sources[0])),
	)

	c, err := Load(sources[0], FormatAuto)
	if err != nil {
		return nil, err
	}
	c.Path = zipPath
	return c, nil
}

// extractZIP extracts all files from a ZIP archive to destDir and returns
// their paths.
func extractZIP(zipPath, destDir string) ([]string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: open archive %s", zipPath)
	}
	defer r.Close() //nolint:errcheck

	var extracted []string
	for _, f := range r.File {
		if macOSMetadata(f.Name) {
			continue
		}
		dest, err := extractZIPEntry(f, destDir)
		if err != nil {
			return nil, err
		}
		if dest != "" {
			extracted = append(extracted, dest)
		}
	}
	return extracted, nil
}

// macOSMetadata reports the Finder entries (__MACOSX/ and ._name) that
// archives zipped on macOS carry next to the real files.
func macOSMetadata(name string) bool {
	return strings.HasPrefix(name, "__MACOSX/") || strings.HasPrefix(path.Base(name), "._")
}

// extractZIPEntry extracts a single entry. Directories return "".
func extractZIPEntry(f *zip.File, destDir string) (string, error) {
	// Sanitize against zip slip
	destPath := filepath.Join(destDir, f.Name)
	if !strings.HasPrefix(filepath.Clean(destPath), filepath.Clean(destDir)+string(os.PathSeparator)) {
		return "", eris.Errorf("boundary: illegal archive path %q", f.Name)
	}

	if f.FileInfo().IsDir() {
		if err := os.MkdirAll(destPath, 0o755); err != nil {
			return "", eris.Wrap(err, "boundary: create directory")
		}
		return "", nil
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return "", eris.Wrap(err, "boundary: create parent directory")
	}

	rc, err := f.Open()
	if err != nil {
		return "", eris.Wrap(err, "boundary: open archive entry")
	}
	defer rc.Close() //nolint:errcheck

	out, err := os.Create(destPath)
	if err != nil {
		return "", eris.Wrap(err, "boundary: create file")
	}
	defer out.Close() //nolint:errcheck

	if _, err := io.Copy(out, rc); err != nil {
		return "", eris.Wrap(err, "boundary: write file")
	}
	return destPath, nil
}
