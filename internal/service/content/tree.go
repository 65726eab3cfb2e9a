package content

import (
	"log/slog"
	"time"

	"pagetree/internal/config"
	repo "pagetree/internal/domain/repositories/content"
	svc "pagetree/internal/domain/services/content"
	"pagetree/internal/schema"
)

// Options tunes the walks shared by every service in this package
type Options struct {
	// MaxDepth caps ancestor walks and unbounded subtree walks
	MaxDepth int
	// Concurrency bounds sibling expansion per subtree level
	Concurrency int
	// Locale drives label collation
	Locale string
	// Location buckets archive timestamps
	Location *time.Location
}

// OptionsFromConfig maps server configuration onto service options. An
// unknown time zone is an error so misconfiguration surfaces at startup.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	loc, err := time.LoadLocation(cfg.ArchiveTimezone)
	if err != nil {
		return Options{}, err
	}
	return Options{
		MaxDepth:    cfg.MaxTreeDepth,
		Concurrency: cfg.SubtreeConcurrency,
		Locale:      cfg.CollationLocale,
		Location:    loc,
	}, nil
}

func (o Options) withDefaults() Options {
	if o.MaxDepth <= 0 {
		o.MaxDepth = config.DefaultMaxTreeDepth
	}
	if o.Concurrency <= 0 {
		o.Concurrency = 1
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	return o
}

// treeService implements the slug-based TreeService
type treeService struct {
	registry *schema.Registry
	records  repo.RecordRepository
	order    labelOrder
	opts     Options
	logger   *slog.Logger
}

// NewTreeService creates a new tree service
func NewTreeService(
	registry *schema.Registry,
	records repo.RecordRepository,
	opts Options,
	logger *slog.Logger,
) svc.TreeService {
	opts = opts.withDefaults()
	return &treeService{
		registry: registry,
		records:  records,
		order:    newLabelOrder(opts.Locale),
		opts:     opts,
		logger:   logger,
	}
}

// hierarchyFor resolves a slug route's kind with auto-detected fields
func (s *treeService) hierarchyFor(kind string) (*hierarchy, error) {
	return resolveHierarchy(s.registry, kind, "", "")
}
