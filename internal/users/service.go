package users

import (
	"context"
	"errors"
	"strings"

	"github.com/taggate/taggate/internal/models"
)

var (
	ErrMissingTag   = errors.New("tag is required")
	ErrDuplicateTag = errors.New("tag is already registered")
)

// Service encapsulates user-related business logic
type Service struct {
	repo UserRepository
}

func NewService(r UserRepository) *Service {
	return &Service{repo: r}
}

// Register stores a new badge holder. The tag is the only required field;
// an empty name is normalized to "Unknown" so resolved-but-unnamed users
// stay distinct from unresolved scans.
func (s *Service) Register(ctx context.Context, tag, name, matric string) (*models.User, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil, ErrMissingTag
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Unknown"
	}
	u := &models.User{
		Tag:    tag,
		Name:   name,
		Matric: strings.TrimSpace(matric),
	}
	return s.repo.Insert(ctx, u)
}

func (s *Service) FindByTag(ctx context.Context, tag string) (*models.User, error) {
	return s.repo.FindByTag(ctx, tag)
}
