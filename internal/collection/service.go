package collection

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/treyfatech/sitecms/internal"
	"github.com/treyfatech/sitecms/internal/auth"
	"github.com/treyfatech/sitecms/internal/sitedata"
)

// Service runs item CRUD against one named section. The whole array is
// read, modified in memory and written back, so concurrent writers to
// the same collection race last-writer-wins.
type Service struct {
	section string
	label   string
	repo    sitedata.Repository
	logger  *slog.Logger
}

// NewService binds the service to a section. label is the display name
// used in response messages, e.g. "Portfolio".
func NewService(section, label string, repo sitedata.Repository, logger *slog.Logger) *Service {
	return &Service{
		section: section,
		label:   label,
		repo:    repo,
		logger:  logger,
	}
}

func (s *Service) Label() string {
	return s.label
}

// List is public and reads as empty when the section was never written.
func (s *Service) List() ([]Item, error) {
	entry, err := s.repo.GetBySection(s.section)
	if err != nil {
		if errors.Is(err, sitedata.ErrNotFound) {
			return []Item{}, nil
		}
		return nil, fmt.Errorf("get %s: %w", s.section, err)
	}
	return decodeItems(entry.Data)
}

func (s *Service) Add(item Item, actor *auth.Actor) (Item, error) {
	if !actor.HasPermission(auth.PermissionAll) {
		return nil, internal.ErrAccessDenied
	}
	if item == nil {
		item = Item{}
	}

	items, err := s.loadOrEmpty()
	if err != nil {
		return nil, err
	}

	stampNew(item, uuid.NewString())
	items = append(items, item)

	if err := s.save(items); err != nil {
		return nil, err
	}

	s.logger.Info("collection item added", "section", s.section, "item_id", item.ID(), "actor_id", actor.ID)
	return item, nil
}

func (s *Service) Update(id string, patch Item, actor *auth.Actor) (Item, error) {
	if !actor.HasPermission(auth.PermissionAll) {
		return nil, internal.ErrAccessDenied
	}

	entry, err := s.repo.GetBySection(s.section)
	if err != nil {
		if errors.Is(err, sitedata.ErrNotFound) {
			return nil, ErrCollectionMissing
		}
		return nil, fmt.Errorf("get %s: %w", s.section, err)
	}

	items, err := decodeItems(entry.Data)
	if err != nil {
		return nil, err
	}

	idx := indexOf(items, id)
	if idx < 0 {
		return nil, internal.ErrItemNotFound
	}

	// Merge the patch over the stored item; id is never overwritten.
	for k, v := range patch {
		if k == "id" {
			continue
		}
		items[idx][k] = v
	}
	stampUpdated(items[idx])

	if err := s.save(items); err != nil {
		return nil, err
	}

	s.logger.Info("collection item updated", "section", s.section, "item_id", id, "actor_id", actor.ID)
	return items[idx], nil
}

func (s *Service) Delete(id string, actor *auth.Actor) error {
	if !actor.HasPermission(auth.PermissionAll) {
		return internal.ErrAccessDenied
	}

	entry, err := s.repo.GetBySection(s.section)
	if err != nil {
		if errors.Is(err, sitedata.ErrNotFound) {
			return ErrCollectionMissing
		}
		return fmt.Errorf("get %s: %w", s.section, err)
	}

	items, err := decodeItems(entry.Data)
	if err != nil {
		return err
	}

	kept := items[:0]
	for _, it := range items {
		if it.ID() != id {
			kept = append(kept, it)
		}
	}

	if err := s.save(kept); err != nil {
		return err
	}

	s.logger.Info("collection item deleted", "section", s.section, "item_id", id, "actor_id", actor.ID)
	return nil
}

func (s *Service) loadOrEmpty() ([]Item, error) {
	entry, err := s.repo.GetBySection(s.section)
	if err != nil {
		if errors.Is(err, sitedata.ErrNotFound) {
			return []Item{}, nil
		}
		return nil, fmt.Errorf("get %s: %w", s.section, err)
	}
	return decodeItems(entry.Data)
}

func (s *Service) save(items []Item) error {
	doc, err := encodeItems(items)
	if err != nil {
		return err
	}
	if err := s.repo.Upsert(&sitedata.Entry{Section: s.section, Data: doc}); err != nil {
		s.logger.Error("failed to write collection", "section", s.section, "error", err)
		return fmt.Errorf("save %s: %w", s.section, err)
	}
	return nil
}

func indexOf(items []Item, id string) int {
	for i, it := range items {
		if it.ID() == id {
			return i
		}
	}
	return -1
}
