// Package report writes extractor and comparator results to disk.
//
// Every document is encoded in memory first. A Batch then stages each one as
// a temp file beside its target and renames them only once all are staged,
// so a failed run never leaves a partial file or a partial set behind.
package report

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

type stagedFile struct {
	tmp, path string
}

// Batch stages files beside their targets and renames them in one pass.
// The zero value is ready to use.
type Batch struct {
	staged []stagedFile
}

// Stage writes data to a temp file in path's directory. Nothing appears at
// path until Commit.
func (b *Batch) Stage(path string, data []byte) error {
	tmp, err := writeTemp(path, data)
	if err != nil {
		return err
	}
	b.staged = append(b.staged, stagedFile{tmp: tmp, path: path})
	return nil
}

// Len returns the number of staged files.
func (b *Batch) Len() int { return len(b.staged) }

// Commit renames every staged file into place. If a rename fails, the temp
// files not yet renamed are removed.
func (b *Batch) Commit() error {
	for i, s := range b.staged {
		if err := os.Rename(s.tmp, s.path); err != nil {
			for _, rest := range b.staged[i:] {
				os.Remove(rest.tmp) //nolint:errcheck
			}
			b.staged = nil
			return eris.Wrapf(err, "report: rename into %s", s.path)
		}
	}
	b.staged = nil
	return nil
}

// Abort removes every staged temp file. It is a no-op after Commit.
func (b *Batch) Abort() {
	for _, s := range b.staged {
		os.Remove(s.tmp) //nolint:errcheck
	}
	b.staged = nil
}

func writeTemp(path string, data []byte) (string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", eris.Wrapf(err, "report: create temp file for %s", path)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()        //nolint:errcheck
		os.Remove(tmpName) //nolint:errcheck
		return "", eris.Wrapf(err, "report: write %s", path)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName) //nolint:errcheck
		return "", eris.Wrapf(err, "report: close %s", path)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName) //nolint:errcheck
		return "", eris.Wrapf(err, "report: chmod %s", path)
	}
	return tmpName, nil
}
