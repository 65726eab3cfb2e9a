package content

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	models "pagetree/internal/domain/models/content"
	repo "pagetree/internal/domain/repositories/content"
	svc "pagetree/internal/domain/services/content"
	"pagetree/internal/schema"
)

// archiveService counts publications per calendar day
type archiveService struct {
	registry *schema.Registry
	records  repo.RecordRepository
	loc      *time.Location
	logger   *slog.Logger
}

// NewArchiveService creates a new archive service
func NewArchiveService(
	registry *schema.Registry,
	records repo.RecordRepository,
	opts Options,
	logger *slog.Logger,
) svc.ArchiveService {
	opts = opts.withDefaults()
	return &archiveService{
		registry: registry,
		records:  records,
		loc:      opts.Location,
		logger:   logger,
	}
}

// Archive buckets publication timestamps by year, month and day. A
// date-only upper bound covers that whole day.
func (s *archiveService) Archive(ctx context.Context, req *svc.ArchiveRequest) (years []models.ArchiveYear, err error) {
	start := time.Now()
	defer func() { observe("archive", start, err) }()

	if err := validateArchiveRequest(req); err != nil {
		return nil, err
	}

	ct, err := lookupContentType(s.registry, req.Kind)
	if err != nil {
		return nil, err
	}

	q := repo.Query{Fields: []string{}}.Published().OrderBy(models.FieldPublishedAt, true)
	if req.From != "" {
		from, _, err := parseBound(req.From, s.loc)
		if err != nil {
			return nil, err
		}
		q = q.Where(models.FieldPublishedAt, repo.OpGreaterThanOrEqual, from)
	}
	if req.To != "" {
		to, dateOnly, err := parseBound(req.To, s.loc)
		if err != nil {
			return nil, err
		}
		if dateOnly {
			to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		q = q.Where(models.FieldPublishedAt, repo.OpLessThanOrEqual, to)
	}

	records, err := s.records.FindMany(ctx, ct, q)
	if err != nil {
		s.logger.Error("failed to load archive",
			"content_type", ct.UID,
			"from", req.From,
			"to", req.To,
			"error", err,
		)
		return nil, fmt.Errorf("load %s archive: %w", ct.Kind, err)
	}

	stamps := make([]time.Time, 0, len(records))
	for i := range records {
		if records[i].PublishedAt != nil {
			stamps = append(stamps, *records[i].PublishedAt)
		}
	}

	years = bucketArchive(stamps, s.loc)
	treeSize.WithLabelValues("archive").Observe(float64(len(stamps)))
	return years, nil
}

// bucketArchive groups timestamps in loc. Years come out newest first,
// months and days oldest first; every level carries the count below it.
func bucketArchive(stamps []time.Time, loc *time.Location) []models.ArchiveYear {
	counts := make(map[int]map[int]map[int]int)
	for _, t := range stamps {
		t = t.In(loc)
		y, m, d := t.Year(), int(t.Month()), t.Day()
		if counts[y] == nil {
			counts[y] = make(map[int]map[int]int)
		}
		if counts[y][m] == nil {
			counts[y][m] = make(map[int]int)
		}
		counts[y][m][d]++
	}

	years := make([]models.ArchiveYear, 0, len(counts))
	for _, y := range sortedKeys(counts, true) {
		year := models.ArchiveYear{Year: y, Months: []models.ArchiveMonth{}}
		for _, m := range sortedKeys(counts[y], false) {
			month := models.ArchiveMonth{Month: m, Days: []models.ArchiveDay{}}
			for _, d := range sortedKeys(counts[y][m], false) {
				n := counts[y][m][d]
				month.Days = append(month.Days, models.ArchiveDay{Day: d, Count: n})
				month.Count += n
			}
			year.Months = append(year.Months, month)
			year.Count += month.Count
		}
		years = append(years, year)
	}
	return years
}

func sortedKeys[V any](m map[int]V, desc bool) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	if desc {
		slices.Reverse(keys)
	}
	return keys
}
