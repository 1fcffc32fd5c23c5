package news

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mptourism/paryatan/internal/apperror"
	"github.com/mptourism/paryatan/internal/plugins/geo"
	"github.com/mptourism/paryatan/internal/sanitize"
)

// NewsService defines the business logic contract for news articles.
type NewsService interface {
	Create(ctx context.Context, authorID string, input CreateArticleInput) (*Article, error)
	Update(ctx context.Context, id string, input UpdateArticleInput) (*Article, error)
	Publish(ctx context.Context, id string) (*Article, error)
	Unpublish(ctx context.Context, id string) (*Article, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*Article, error)

	// GetPublished returns a published article by slug for the public site.
	GetPublished(ctx context.Context, slug string) (*Article, error)

	// List returns all articles for the panel; PublicList only published
	// ones, optionally scoped to a district.
	List(ctx context.Context) ([]Article, error)
	PublicList(ctx context.Context, districtID string) ([]Article, error)
}

// newsService implements NewsService.
type newsService struct {
	repo     NewsRepository
	registry geo.Registry
}

// NewNewsService creates a new news service.
func NewNewsService(repo NewsRepository, registry geo.Registry) NewsService {
	return &newsService{repo: repo, registry: registry}
}

// Create drafts a new article. The body is sanitized before storage so
// the public site can render it without further escaping.
func (s *newsService) Create(ctx context.Context, authorID string, input CreateArticleInput) (*Article, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperror.NewValidation("title is required")
	}
	body := sanitize.HTML(input.BodyHTML)
	if strings.TrimSpace(body) == "" {
		return nil, apperror.NewValidation("body is required")
	}
	if input.DistrictID != "" {
		if _, err := s.registry.ResolveDistrict(ctx, input.DistrictID); err != nil {
			return nil, err
		}
	}

	slug, err := s.uniqueSlug(ctx, title)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	article := &Article{
		ID:         uuid.NewString(),
		Title:      sanitize.Text(title),
		Slug:       slug,
		BodyHTML:   body,
		DistrictID: input.DistrictID,
		CreatedBy:  authorID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, article); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("creating article: %w", err))
	}

	slog.Info("article drafted",
		slog.String("article_id", article.ID),
		slog.String("author", authorID),
	)
	return article, nil
}

// Update edits an article's content. The slug is stable across edits;
// published links keep working.
func (s *newsService) Update(ctx context.Context, id string, input UpdateArticleInput) (*Article, error) {
	article, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if title := strings.TrimSpace(input.Title); title != "" {
		article.Title = sanitize.Text(title)
	}
	if input.BodyHTML != "" {
		article.BodyHTML = sanitize.HTML(input.BodyHTML)
	}
	if input.DistrictID != "" {
		if _, err := s.registry.ResolveDistrict(ctx, input.DistrictID); err != nil {
			return nil, err
		}
		article.DistrictID = input.DistrictID
	}

	if err := s.repo.Update(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

// Publish makes the article publicly visible. Publishing an already
// published article is a no-op.
func (s *newsService) Publish(ctx context.Context, id string) (*Article, error) {
	article, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if article.IsPublished {
		return article, nil
	}

	now := time.Now().UTC()
	article.IsPublished = true
	article.PublishedAt = &now

	if err := s.repo.Update(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

// Unpublish pulls the article from the public site. The publication
// timestamp is kept for re-publishing.
func (s *newsService) Unpublish(ctx context.Context, id string) (*Article, error) {
	article, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !article.IsPublished {
		return article, nil
	}

	article.IsPublished = false
	if err := s.repo.Update(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

// Delete removes the article.
func (s *newsService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Get returns one article for panel users.
func (s *newsService) Get(ctx context.Context, id string) (*Article, error) {
	return s.repo.FindByID(ctx, id)
}

// GetPublished returns a published article by slug. Drafts look like
// missing articles to the public.
func (s *newsService) GetPublished(ctx context.Context, slug string) (*Article, error) {
	article, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !article.IsPublished {
		return nil, apperror.NewNotFound("article not found")
	}
	return article, nil
}

// List returns all articles for the panel.
func (s *newsService) List(ctx context.Context) ([]Article, error) {
	articles, err := s.repo.List(ctx, false, "")
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing articles: %w", err))
	}
	return articles, nil
}

// PublicList returns published articles, optionally scoped to a district.
func (s *newsService) PublicList(ctx context.Context, districtID string) ([]Article, error) {
	articles, err := s.repo.List(ctx, true, districtID)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing published articles: %w", err))
	}
	return articles, nil
}

// uniqueSlug derives a slug from the title, suffixing a counter when the
// base slug is taken.
func (s *newsService) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := slugify(title)
	if base == "" {
		return "", apperror.NewValidation("title must contain letters or digits")
	}

	slug := base
	for i := 2; ; i++ {
		taken, err := s.repo.SlugExists(ctx, slug)
		if err != nil {
			return "", apperror.NewInternal(fmt.Errorf("checking slug: %w", err))
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(name string) string {
	slug := slugRe.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}
