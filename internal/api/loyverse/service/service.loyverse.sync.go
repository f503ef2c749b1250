package loyversesvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	posmodels "github.com/oacc1974/Golmarcadmion/internal/api/pos/models"
	"github.com/oacc1974/Golmarcadmion/internal/common"
	"github.com/oacc1974/Golmarcadmion/internal/logger"
	"github.com/oacc1974/Golmarcadmion/internal/loyverse"
	"github.com/oacc1974/Golmarcadmion/internal/redisx"
	"github.com/sirupsen/logrus"
)

// PageFetcher reads one page of a cursor paginated list. *loyverse.Client implements it.
type PageFetcher interface {
	GetPage(ctx context.Context, path string, query url.Values, listKey string) (loyverse.Page, error)
}

// SyncJob describes one pull of a list endpoint into a sink.
type SyncJob[M any] struct {
	Name      string
	Path      string
	ListKey   string
	Query     url.Values
	BatchSize int
	PageDelay time.Duration
	Transform func(raw json.RawMessage) (M, error)
	Key       func(doc M) string
	Store     Sink[M]
}

// SyncResult summarizes a finished sync.
type SyncResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Fetched int    `json:"fetched"`
	Synced  int    `json:"synced"`
	Failed  int    `json:"failed"`
}

// RunSync walks every page of job.Path, flushing the buffered records in batches of
// job.BatchSize. A record that fails to transform or upsert is logged, counted and
// skipped; a page that fails to load aborts the run.
func RunSync[M any](ctx context.Context, client PageFetcher, job SyncJob[M]) (*SyncResult, error) {
	log := logger.WithContext(ctx).WithFields(logrus.Fields{"module": "loyverse.sync", "sync": job.Name})
	batchSize := job.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}

	query := url.Values{}
	for k, v := range job.Query {
		query[k] = append([]string(nil), v...)
	}

	res := &SyncResult{}
	flush := func(batch []json.RawMessage) {
		for _, raw := range batch {
			doc, err := job.Transform(raw)
			if err == nil {
				err = job.Store.ReplaceByLoyverseID(ctx, job.Key(doc), doc)
			}
			if err != nil {
				res.Failed++
				log.WithError(err).Warn("🔄 [LOYVERSE SYNC] Skipping record")
				continue
			}
			res.Synced++
		}
	}

	var buffer []json.RawMessage
	cursor := ""
	for pageNo := 0; ; pageNo++ {
		if pageNo > 0 && job.PageDelay > 0 {
			if err := sleep(ctx, job.PageDelay); err != nil {
				return nil, err
			}
		}
		if cursor != "" {
			query.Set("cursor", cursor)
		}

		page, err := client.GetPage(ctx, job.Path, query, job.ListKey)
		if err != nil {
			log.WithError(err).WithField("page", pageNo+1).Error("🔄 [LOYVERSE SYNC] Page fetch failed")
			return nil, err
		}
		res.Fetched += len(page.Items)
		buffer = append(buffer, page.Items...)

		for len(buffer) >= batchSize {
			flush(buffer[:batchSize])
			buffer = buffer[batchSize:]
		}

		cursor = page.Cursor
		if cursor == "" {
			break
		}
	}
	flush(buffer)

	res.Success = true
	res.Message = fmt.Sprintf("Synced %d %s", res.Synced, job.Name)
	if res.Failed > 0 {
		res.Message += fmt.Sprintf(" (%d failed)", res.Failed)
	}
	log.WithFields(logrus.Fields{"fetched": res.Fetched, "synced": res.Synced, "failed": res.Failed}).
		Info("🔄 [LOYVERSE SYNC] Finished")
	return res, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// decoder turns a typed transform into one over raw JSON.
func decoder[W, M any](transform func(W) (M, error)) func(json.RawMessage) (M, error) {
	return func(raw json.RawMessage) (M, error) {
		var wire W
		if err := json.Unmarshal(raw, &wire); err != nil {
			var zero M
			return zero, fmt.Errorf("decode record: %w", err)
		}
		return transform(wire)
	}
}

// SyncRange bounds a ranged sync. StoreID is optional.
type SyncRange struct {
	StoreID string
	From    time.Time
	To      time.Time
}

// rangeLayout keeps milliseconds so an end of day bound stays at 23:59:59.999.
const rangeLayout = "2006-01-02T15:04:05.000Z07:00"

func (r SyncRange) query(minKey, maxKey string) url.Values {
	q := url.Values{}
	q.Set(minKey, r.From.UTC().Format(rangeLayout))
	q.Set(maxKey, r.To.UTC().Format(rangeLayout))
	if r.StoreID != "" {
		q.Set("store_id", r.StoreID)
	}
	return q
}

func (r SyncRange) describe() string {
	s := fmt.Sprintf(" from %s to %s", r.From.UTC().Format(time.RFC3339), r.To.UTC().Format(time.RFC3339))
	if r.StoreID != "" {
		s += " for store " + r.StoreID
	}
	return s
}

// SyncConfig configures SyncService.
type SyncConfig struct {
	PageDelay time.Duration // between pages of receipts and shifts
	LockTTL   time.Duration
}

// SyncService runs the pull syncs, one of each kind at a time across instances when
// a Redis locker is configured.
type SyncService struct {
	client PageFetcher
	repos  Repositories
	locker redisx.Locker
	cfg    SyncConfig
	now    func() time.Time
}

// NewSyncService wires the syncs. A nil locker disables cross-instance exclusion.
func NewSyncService(client PageFetcher, repos Repositories, locker redisx.Locker, cfg SyncConfig) *SyncService {
	if locker == nil {
		locker = redisx.NoopLocker{}
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = time.Minute
	}
	return &SyncService{client: client, repos: repos, locker: locker, cfg: cfg, now: time.Now}
}

func (s *SyncService) run(ctx context.Context, kind string, fn func(ctx context.Context) (*SyncResult, error)) (*SyncResult, error) {
	var res *SyncResult
	err := s.locker.WithLock(ctx, "loyverse:sync:"+kind, s.cfg.LockTTL, func(ctx context.Context) error {
		var err error
		res, err = fn(ctx)
		return err
	})
	if err != nil {
		return nil, upstreamError("sync "+kind, err)
	}
	return res, nil
}

// SyncStores pulls every store.
func (s *SyncService) SyncStores(ctx context.Context) (*SyncResult, error) {
	return s.run(ctx, "stores", func(ctx context.Context) (*SyncResult, error) {
		return RunSync(ctx, s.client, SyncJob[posmodels.Store]{
			Name: "stores", Path: "/stores", ListKey: "stores", BatchSize: 250,
			Transform: decoder(func(w loyverse.Store) (posmodels.Store, error) { return TransformStore(w, s.now()) }),
			Key:       func(d posmodels.Store) string { return d.LoyverseID },
			Store:     s.repos.Stores,
		})
	})
}

// SyncEmployees pulls every employee.
func (s *SyncService) SyncEmployees(ctx context.Context) (*SyncResult, error) {
	return s.run(ctx, "employees", func(ctx context.Context) (*SyncResult, error) {
		return RunSync(ctx, s.client, SyncJob[posmodels.Employee]{
			Name: "employees", Path: "/employees", ListKey: "employees", BatchSize: 250,
			Transform: decoder(func(w loyverse.Employee) (posmodels.Employee, error) { return TransformEmployee(w, s.now()) }),
			Key:       func(d posmodels.Employee) string { return d.LoyverseID },
			Store:     s.repos.Employees,
		})
	})
}

// SyncItems pulls the whole catalogue.
func (s *SyncService) SyncItems(ctx context.Context) (*SyncResult, error) {
	return s.run(ctx, "items", func(ctx context.Context) (*SyncResult, error) {
		return RunSync(ctx, s.client, SyncJob[posmodels.Item]{
			Name: "items", Path: "/items", ListKey: "items", BatchSize: 250,
			Transform: decoder(func(w loyverse.Item) (posmodels.Item, error) { return TransformItem(w, s.now()) }),
			Key:       func(d posmodels.Item) string { return d.LoyverseID },
			Store:     s.repos.Items,
		})
	})
}

// SyncReceipts pulls the receipts created within r.
func (s *SyncService) SyncReceipts(ctx context.Context, r SyncRange) (*SyncResult, error) {
	res, err := s.run(ctx, "receipts", func(ctx context.Context) (*SyncResult, error) {
		return RunSync(ctx, s.client, SyncJob[posmodels.Receipt]{
			Name: "receipts", Path: "/receipts", ListKey: "receipts", BatchSize: 100,
			Query:     r.query("created_at_min", "created_at_max"),
			PageDelay: s.cfg.PageDelay,
			Transform: decoder(func(w loyverse.Receipt) (posmodels.Receipt, error) {
				return TransformReceipt(w, OriginSync, s.now())
			}),
			Key:   func(d posmodels.Receipt) string { return d.LoyverseID },
			Store: s.repos.Receipts,
		})
	})
	if res != nil {
		res.Message += r.describe()
	}
	return res, err
}

// SyncShifts pulls the shifts opened within r.
func (s *SyncService) SyncShifts(ctx context.Context, r SyncRange) (*SyncResult, error) {
	res, err := s.run(ctx, "shifts", func(ctx context.Context) (*SyncResult, error) {
		return RunSync(ctx, s.client, SyncJob[posmodels.Shift]{
			Name: "shifts", Path: "/shifts", ListKey: "shifts", BatchSize: 50,
			Query:     r.query("opened_at_min", "opened_at_max"),
			PageDelay: s.cfg.PageDelay,
			Transform: decoder(func(w loyverse.Shift) (posmodels.Shift, error) { return TransformShift(w, s.now()) }),
			Key:       func(d posmodels.Shift) string { return d.LoyverseID },
			Store:     s.repos.Shifts,
		})
	})
	if res != nil {
		res.Message += r.describe()
	}
	return res, err
}

// upstreamError maps client failures onto UPS_001. Application errors pass through.
func upstreamError(op string, err error) error {
	var appErr *common.Error
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, loyverse.ErrNoToken):
		return common.NewError(common.ErrCodeUpstream, "Loyverse API token is not configured", common.StatusServiceUnavailable, nil)
	}
	if ue, ok := loyverse.AsUpstreamError(err); ok {
		return common.Upstream(op, ue.StatusCode, ue.Message)
	}
	return common.Upstream(op, 0, err.Error())
}
