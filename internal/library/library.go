// package library loads exported media-library descriptors into the track model
//
// The only implemented source is the Apple-style XML property list produced
// by File > Library > Export Library.
package library

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/dupx/internal/models"
	"github.com/desertthunder/dupx/internal/shared"
)

// Service defines the interface for library loaders.
type Service interface {
	// Load parses the export at path into a Library.
	// Malformed entries are skipped and counted; a missing file or
	// malformed document fails the whole load.
	Load(ctx context.Context, path string) (*models.Library, error)

	// Name returns the name of the loader implementation.
	Name() string
}

// PlistService loads Apple-style XML property-list library exports.
//
// Implements [Service].
type PlistService struct {
	logger *log.Logger
}

// NewPlistService creates a PlistService with the given logger.
func NewPlistService(logger *log.Logger) *PlistService {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &PlistService{logger: logger}
}

// Name returns the loader name.
func (s *PlistService) Name() string {
	return "Apple Music XML"
}

// Load parses the export at path into a Library.
func (s *PlistService) Load(ctx context.Context, path string) (*models.Library, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrLibraryNotFound, path)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", shared.ErrLibraryNotFound, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrFileRead, err)
	}
	defer f.Close()

	tracks, skipped, err := s.parse(ctx, f)
	if err != nil {
		return nil, err
	}

	s.logger.Info("library loaded", "path", path, "tracks", len(tracks), "skipped", skipped)

	return &models.Library{
		Path:    path,
		Tracks:  tracks,
		Skipped: skipped,
	}, nil
}
