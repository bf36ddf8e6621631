package persistx

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hengadev/errsx"

	"github.com/hengadev/persistx/internal/config"
	"github.com/hengadev/persistx/internal/fileio"
	"github.com/hengadev/persistx/internal/monitoring"
)

const (
	defaultFileMode os.FileMode = 0o600
	defaultDirMode  os.FileMode = 0o700
)

// Operation names passed to observability hooks.
const (
	OperationSave      = "save"
	OperationLoad      = "load"
	OperationDelete    = "delete"
	OperationDeleteAll = "delete_all"
)

// Service stores one record per file under {directory}/{name}.{extension}.
//
// There is no in-memory index: every call looks at the filesystem, so
// records written by another process are visible immediately. A Service is
// safe for concurrent use, but concurrent writes to the same record are not
// coordinated and the last writer wins.
type Service struct {
	serializer Serializer
	kind       SerializerKind
	directory  string
	extension  string
	fileMode   os.FileMode
	logger     *slog.Logger
	hooks      monitoring.MultiObservabilityHook
}

// NewService creates a Service that writes serializer output to files named
// {name}.{extension} under directory. A leading dot on extension is
// stripped. The directory does not need to exist yet; it is created on the
// first save.
func NewService(serializer Serializer, directory, extension string, opts ...ServiceOption) (*Service, error) {
	if serializer == nil {
		return nil, fmt.Errorf("%w: serializer cannot be nil", ErrInvalidConfiguration)
	}
	if directory == "" {
		return nil, fmt.Errorf("%w: directory cannot be empty", ErrInvalidConfiguration)
	}
	ext, err := config.NormalizeExtension(extension)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}

	s := &Service{
		serializer: serializer,
		kind:       kindOf(serializer),
		directory:  filepath.Clean(directory),
		extension:  ext,
		fileMode:   defaultFileMode,
		logger:     monitoring.DiscardLogger(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	s.logger.Debug("persistence service ready",
		"directory", s.directory,
		"extension", s.extension,
		"serializer", s.kind.String(),
	)
	return s, nil
}

func kindOf(serializer Serializer) SerializerKind {
	switch serializer.(type) {
	case *EncryptedJSONSerializer:
		return EncryptedText
	default:
		return PlainText
	}
}

// Directory returns the storage directory.
func (s *Service) Directory() string { return s.directory }

// Extension returns the record file extension, without the leading dot.
func (s *Service) Extension() string { return s.extension }

// Kind returns the serializer kind the service was built with.
func (s *Service) Kind() SerializerKind { return s.kind }

// Path returns the file that backs the record called name. It does not
// validate name.
func (s *Service) Path(name string) string {
	return filepath.Join(s.directory, name+"."+s.extension)
}

// Save serializes value and writes it to the record called name, replacing
// any existing record unless WithoutOverwrite is given. The write goes
// through a temporary file and a rename, so a reader never sees a partly
// written record.
func (s *Service) Save(name string, value any, opts ...SaveOption) error {
	return s.observe(OperationSave, name, func() error {
		o := saveOptions{overwrite: true}
		for _, opt := range opts {
			opt(&o)
		}

		path, err := s.recordPath(name)
		if err != nil {
			return err
		}

		data, err := s.serializer.Serialize(value)
		if err != nil {
			return err
		}

		if err := s.write(path, []byte(data), o.overwrite); err != nil {
			return err
		}
		s.logger.Info("record saved", "record", name, "path", path)
		return nil
	})
}

// Load reads the record called name and decodes it into target, which must
// be a non-nil pointer.
//
// Returns ErrNotFound if there is no such record, and ErrFormat or
// ErrDecryption if the stored content cannot be decoded.
func (s *Service) Load(name string, target any) error {
	return s.observe(OperationLoad, name, func() error {
		data, err := s.read(name)
		if err != nil {
			return err
		}
		if err := s.serializer.Deserialize(string(data), target); err != nil {
			return err
		}
		s.logger.Info("record loaded", "record", name)
		return nil
	})
}

// LoadAs reads the record called name as a T.
func LoadAs[T any](s *Service, name string) (T, error) {
	var v T
	if err := s.Load(name, &v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// Delete removes the record called name. Deleting a record that does not
// exist is an error (ErrNotFound).
func (s *Service) Delete(name string) error {
	return s.observe(OperationDelete, name, func() error {
		return s.remove(name)
	})
}

// DeleteAll removes every record with the service's extension. Files with
// other extensions are left alone.
//
// Each record is removed the same way Delete does it. A failure does not
// stop the sweep: the remaining records are still attempted and all
// failures are returned together as an errsx.Map keyed by record name. A
// record that disappears between listing and removal is reported as
// ErrNotFound in that map. A missing directory means there is nothing to
// delete.
//
// Files placed in the directory by other means are listed too. One whose
// stem is not a valid record name, such as a stem longer than
// MaxNameLength bytes, is reported as ErrInvalidName and left in place.
func (s *Service) DeleteAll() error {
	return s.observe(OperationDeleteAll, "*", func() error {
		names, err := s.List()
		if err != nil {
			return err
		}

		errs := errsx.Map{}
		for _, name := range names {
			if err := s.Delete(name); err != nil {
				errs.Set(name, err)
			}
		}
		if !errs.IsEmpty() {
			s.logger.Warn("delete all finished with errors", "failed", len(errs), "total", len(names))
			return errs.AsError()
		}

		s.logger.Info("all records deleted", "count", len(names), "directory", s.directory)
		return nil
	})
}

// List returns the sorted names of the stored records.
func (s *Service) List() ([]string, error) {
	names, err := fileio.ListBySuffix(s.directory, "."+s.extension)
	if err != nil {
		return nil, fmt.Errorf("failed to list records in '%s': %w", s.directory, err)
	}
	return names, nil
}

// Exists reports whether the record called name is stored.
func (s *Service) Exists(name string) (bool, error) {
	path, err := s.recordPath(name)
	if err != nil {
		return false, err
	}
	return fileio.Exists(path)
}

// ReadRaw returns the stored text of a record without decoding it.
func (s *Service) ReadRaw(name string) ([]byte, error) {
	return s.read(name)
}

// WriteRaw stores already serialized content as the record called name. It
// is meant for restoring backups taken with ReadRaw.
func (s *Service) WriteRaw(name string, data []byte, overwrite bool) error {
	path, err := s.recordPath(name)
	if err != nil {
		return err
	}
	return s.write(path, data, overwrite)
}

func (s *Service) recordPath(name string) (string, error) {
	if err := config.ValidateRecordName(name); err != nil {
		return "", NewInvalidNameError(name, err)
	}
	return s.Path(name), nil
}

func (s *Service) read(name string) ([]byte, error) {
	path, err := s.recordPath(name)
	if err != nil {
		return nil, err
	}
	data, err := fileio.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, NewNotFoundError(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read '%s': %w", path, err)
	}
	return data, nil
}

func (s *Service) write(path string, data []byte, overwrite bool) error {
	if !overwrite {
		exists, err := fileio.Exists(path)
		if err != nil {
			return fmt.Errorf("failed to stat '%s': %w", path, err)
		}
		if exists {
			return NewAlreadyExistsError(path)
		}
	}

	if err := fileio.EnsureDir(s.directory, defaultDirMode); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", s.directory, err)
	}
	if err := fileio.WriteFile(path, data, s.fileMode); err != nil {
		return fmt.Errorf("failed to write '%s': %w", path, err)
	}
	return nil
}

func (s *Service) remove(name string) error {
	path, err := s.recordPath(name)
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return NewNotFoundError(path)
	}
	if err != nil {
		return fmt.Errorf("failed to delete '%s': %w", path, err)
	}
	s.logger.Info("record deleted", "record", name)
	return nil
}

func (s *Service) observe(operation, record string, fn func() error) error {
	start := time.Now()
	s.hooks.OnOperationStart(operation, record)
	err := fn()
	s.hooks.OnOperationComplete(operation, record, time.Since(start), err)
	return err
}
