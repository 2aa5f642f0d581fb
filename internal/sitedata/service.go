package sitedata

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/treyfatech/sitecms/internal"
	"github.com/treyfatech/sitecms/internal/auth"
)

// ErrNotFound is returned by repositories when a section does not exist.
var ErrNotFound = errors.New("section not found")

type Repository interface {
	GetAll() ([]Entry, error)
	GetBySection(section string) (*Entry, error)
	Upsert(entry *Entry) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// GetAll flattens every section into one section-keyed object.
func (s *Service) GetAll() (map[string]Document, error) {
	entries, err := s.repo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("get site data: %w", err)
	}

	out := make(map[string]Document, len(entries))
	for _, e := range entries {
		out[e.Section] = e.Data
	}
	return out, nil
}

func (s *Service) Get(section string) (Document, error) {
	entry, err := s.repo.GetBySection(section)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.ErrSectionNotFound
		}
		return nil, fmt.Errorf("get section %q: %w", section, err)
	}
	return entry.Data, nil
}

// Update replaces a section's document wholesale, creating the section
// if it does not exist yet. Site data writes are reserved for admins.
func (s *Service) Update(section string, data Document, actor *auth.Actor) (Document, error) {
	if !actor.HasPermission(auth.PermissionAll) {
		return nil, internal.ErrAccessDenied
	}

	section = strings.TrimSpace(section)
	if section == "" {
		return nil, internal.NewValidationFieldError("section", "section is required", internal.ErrCodeValidationFailed)
	}
	if len(data) == 0 || !json.Valid(data) {
		return nil, internal.NewValidationFieldError("data", "data must be valid JSON", internal.ErrCodeValidationFailed)
	}

	entry := &Entry{Section: section, Data: data}
	if err := s.repo.Upsert(entry); err != nil {
		s.logger.Error("failed to update site data", "section", section, "error", err)
		return nil, fmt.Errorf("update section %q: %w", section, err)
	}

	s.logger.Info("site data updated", "section", section, "actor_id", actor.ID)
	return entry.Data, nil
}

// Initialize upserts the default content for every well-known section
// and returns the section names that were written.
func (s *Service) Initialize(actor *auth.Actor) ([]string, error) {
	if !actor.HasPermission(auth.PermissionAll) {
		return nil, internal.ErrAccessDenied
	}

	sections := make([]string, 0, len(DefaultSections))
	for section := range DefaultSections {
		sections = append(sections, section)
	}
	sort.Strings(sections)

	for _, section := range sections {
		entry := &Entry{Section: section, Data: DefaultSections[section]}
		if err := s.repo.Upsert(entry); err != nil {
			return nil, fmt.Errorf("initialize section %q: %w", section, err)
		}
	}

	s.logger.Info("site data initialized", "sections", sections, "actor_id", actor.ID)
	return sections, nil
}
