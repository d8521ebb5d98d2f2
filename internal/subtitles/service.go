package subtitles

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/text/cases"

	"subfetch/internal/config"
	"subfetch/internal/fileutil"
	"subfetch/internal/fingerprint"
	"subfetch/internal/history"
	"subfetch/internal/language"
	"subfetch/internal/logging"
	"subfetch/internal/services"
	"subfetch/internal/subtitles/xunlei"
	"subfetch/internal/videofile"
)

const subtitleFileMode = 0o644

// Searcher is the subset of the index client used by Service.
type Searcher interface {
	Search(ctx context.Context, cid string) (xunlei.SearchResponse, error)
	Download(ctx context.Context, link string) ([]byte, error)
}

// Recorder persists fingerprints and downloads.
type Recorder interface {
	RecordFingerprint(ctx context.Context, fp history.Fingerprint) error
	RecordDownload(ctx context.Context, d history.Download) (int64, error)
}

// Service resolves videos, looks up subtitles by content fingerprint, and
// writes accepted candidates next to the video.
type Service struct {
	config   *config.Config
	logger   *slog.Logger
	index    Searcher
	history  Recorder
	searches *cache.Cache
	now      func() time.Time
	sleep    func(context.Context, time.Duration) error

	hashTimeout time.Duration
	mu          sync.Mutex
	lastCall    time.Time
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithSearcher replaces the default index client (primarily for tests).
func WithSearcher(searcher Searcher) ServiceOption {
	return func(s *Service) {
		if searcher != nil {
			s.index = searcher
		}
	}
}

// WithHistory records fingerprints and downloads in the given store.
func WithHistory(recorder Recorder) ServiceOption {
	return func(s *Service) {
		s.history = recorder
	}
}

// WithClock overrides the time source used for index rate limiting.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService builds a Service from configuration. The index client is
// constructed from cfg.Index unless WithSearcher supplies one.
func NewService(cfg *config.Config, logger *slog.Logger, opts ...ServiceOption) (*Service, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "subtitles", "new service", "config is nil", nil)
	}
	svc := &Service{
		config:      cfg,
		logger:      logging.NewComponentLogger(logger, "subtitles"),
		now:         time.Now,
		sleep:       xunlei.SleepWithContext,
		hashTimeout: fingerprint.DefaultTimeout,
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.index == nil {
		client, err := newIndexClient(cfg)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "subtitles", "new service", "index client", err)
		}
		svc.index = client
	}
	if ttl := cfg.SearchCacheTTL(); ttl > 0 {
		svc.searches = cache.New(ttl, 2*ttl)
	}
	return svc, nil
}

// Fetch runs the full pipeline for one video. Failures to resolve, hash, or
// search abort the video; per-candidate failures are reported in Skipped.
func (s *Service) Fetch(ctx context.Context, req FetchRequest) (FetchResult, error) {
	videoPath, err := videofile.Resolve(req.Path)
	if err != nil {
		return FetchResult{}, err
	}
	ctx = services.WithVideo(ctx, videoPath)
	logger := logging.WithContext(ctx, s.logger)

	info, err := os.Stat(videoPath)
	if err != nil {
		return FetchResult{}, services.Wrap(services.ErrIO, "subtitles", "stat video", videoPath, err)
	}
	if info.IsDir() {
		return FetchResult{}, services.Wrap(services.ErrIO, "subtitles", "stat video", videoPath+" is a directory", nil)
	}

	cid, err := fingerprint.ComputeTimeout(ctx, videoPath, s.hashTimeout)
	if err != nil {
		return FetchResult{}, err
	}
	logger = logger.With(logging.String(logging.FieldFingerprint, cid))
	logger.Debug("fingerprint computed", logging.Int64("size", info.Size()))

	result := FetchResult{
		VideoPath:   videoPath,
		Fingerprint: cid,
		Size:        info.Size(),
	}
	s.recordFingerprint(ctx, logger, history.Fingerprint{Path: videoPath, Size: info.Size(), CID: cid})

	candidates, err := s.Search(ctx, cid)
	if err != nil {
		return result, err
	}
	result.Available = len(candidates)
	candidates = FilterLanguages(candidates, s.languages(req))
	if limit := s.limit(req); limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	result.Candidates = candidates

	overwrite := req.Overwrite || s.config.Subtitles.OverwriteExisting
	for i, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		target, err := TargetPath(videoPath, i, candidate)
		if err != nil {
			s.skip(logger, &result, Skip{Index: i, Subtitle: candidate, Reason: SkipInvalidURL, Err: err})
			continue
		}
		exists, err := fileutil.Exists(target)
		if err != nil {
			s.skip(logger, &result, Skip{Index: i, Subtitle: candidate, TargetPath: target, Reason: SkipWriteFailed, Err: err})
			continue
		}
		if exists && !overwrite {
			result.Skipped = append(result.Skipped, Skip{Index: i, Subtitle: candidate, TargetPath: target, Reason: SkipExists})
			logger.Info("subtitle already present", logging.String("target", target))
			continue
		}
		if req.DryRun {
			result.Downloads = append(result.Downloads, Download{Index: i, Subtitle: candidate, TargetPath: target})
			continue
		}

		data, err := s.download(ctx, candidate.SURL)
		if err != nil {
			s.skip(logger, &result, Skip{Index: i, Subtitle: candidate, TargetPath: target, Reason: SkipDownloadFailed, Err: err})
			continue
		}
		if len(data) == 0 {
			s.skip(logger, &result, Skip{Index: i, Subtitle: candidate, TargetPath: target, Reason: SkipEmpty})
			continue
		}
		if err := fileutil.WriteFileAtomic(target, data, subtitleFileMode); err != nil {
			s.skip(logger, &result, Skip{Index: i, Subtitle: candidate, TargetPath: target, Reason: SkipWriteFailed, Err: err})
			continue
		}

		download := Download{Index: i, Subtitle: candidate, TargetPath: target, Bytes: int64(len(data)), Written: true}
		result.Downloads = append(result.Downloads, download)
		logger.Info("subtitle written",
			logging.String("target", target),
			logging.String("language", candidate.Language),
			logging.Int64("bytes", download.Bytes),
		)
		s.recordDownload(ctx, logger, cid, videoPath, download)
	}
	return result, nil
}

// Search returns the index candidates for cid, reusing results seen within
// the configured cache TTL.
func (s *Service) Search(ctx context.Context, cid string) ([]SubInfo, error) {
	if s.searches != nil {
		if cached, ok := s.searches.Get(cid); ok {
			return append([]SubInfo(nil), cached.([]SubInfo)...), nil
		}
	}
	var resp xunlei.SearchResponse
	err := s.invokeIndex(ctx, func() error {
		var searchErr error
		resp, searchErr = s.index.Search(ctx, cid)
		return searchErr
	})
	if err != nil {
		return nil, classifyIndexError("search", cid, err)
	}
	candidates := make([]SubInfo, 0, len(resp.Subtitles))
	for _, sub := range resp.Subtitles {
		candidates = append(candidates, fromIndex(sub))
	}
	if s.searches != nil {
		s.searches.SetDefault(cid, append([]SubInfo(nil), candidates...))
	}
	return candidates, nil
}

func (s *Service) download(ctx context.Context, link string) ([]byte, error) {
	var data []byte
	err := s.invokeIndex(ctx, func() error {
		var downloadErr error
		data, downloadErr = s.index.Download(ctx, link)
		return downloadErr
	})
	if err != nil {
		return nil, classifyIndexError("download", link, err)
	}
	return data, nil
}

func (s *Service) invokeIndex(ctx context.Context, op func() error) error {
	attempt := 0
	for {
		if err := s.waitForWindow(ctx); err != nil {
			return err
		}
		err := op()
		s.markCall()
		if err == nil {
			return nil
		}
		if !xunlei.IsRetriable(err) || attempt >= xunlei.MaxRetries {
			return err
		}
		attempt++
		backoff := xunlei.Backoff(attempt)
		logging.WarnWithContext(logging.WithContext(ctx, s.logger), "subtitle index busy, retrying", "index_retry",
			logging.Duration("backoff", backoff),
			logging.Int("attempt", attempt),
			logging.Int("max_attempts", xunlei.MaxRetries),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "wait for the index to recover or check network connectivity"),
			logging.String(logging.FieldImpact, "fetch delayed"),
		)
		if err := s.sleep(ctx, backoff); err != nil {
			return err
		}
	}
}

func (s *Service) waitForWindow(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	lastCall := s.lastCall
	s.mu.Unlock()
	if lastCall.IsZero() {
		return nil
	}
	elapsed := s.now().Sub(lastCall)
	if elapsed >= xunlei.MinInterval {
		return nil
	}
	return s.sleep(ctx, xunlei.MinInterval-elapsed)
}

func (s *Service) markCall() {
	s.mu.Lock()
	s.lastCall = s.now()
	s.mu.Unlock()
}

func (s *Service) languages(req FetchRequest) []string {
	if len(req.Languages) > 0 {
		return req.Languages
	}
	return s.config.Subtitles.Languages
}

func (s *Service) limit(req FetchRequest) int {
	if req.Limit > 0 {
		return req.Limit
	}
	return s.config.Subtitles.MaxPerVideo
}

func (s *Service) skip(logger *slog.Logger, result *FetchResult, skip Skip) {
	if skip.Err != nil {
		skip.Message = skip.Err.Error()
	}
	result.Skipped = append(result.Skipped, skip)
	attrs := []logging.Attr{
		logging.Int("index", skip.Index),
		logging.String("url", skip.Subtitle.SURL),
		logging.String("reason", string(skip.Reason)),
		logging.String(logging.FieldImpact, "subtitle not written"),
	}
	if skip.TargetPath != "" {
		attrs = append(attrs, logging.String("target", skip.TargetPath))
	}
	if skip.Err != nil {
		attrs = append(attrs, logging.Error(skip.Err), logging.String("error_kind", services.Kind(skip.Err)))
	}
	logging.WarnWithContext(logger, "subtitle candidate skipped", "subtitle_skipped", attrs...)
}

func (s *Service) recordFingerprint(ctx context.Context, logger *slog.Logger, fp history.Fingerprint) {
	if s.history == nil {
		return
	}
	if err := s.history.RecordFingerprint(ctx, fp); err != nil {
		logging.WarnWithContext(logger, "history update failed", "history_write_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "fingerprint not remembered"),
			logging.String(logging.FieldErrorHint, "check the state directory is writable"),
		)
	}
}

func (s *Service) recordDownload(ctx context.Context, logger *slog.Logger, cid, videoPath string, d Download) {
	if s.history == nil {
		return
	}
	_, err := s.history.RecordDownload(ctx, history.Download{
		CID:        cid,
		VideoPath:  videoPath,
		Index:      d.Index,
		Language:   d.Subtitle.Language,
		URL:        d.Subtitle.SURL,
		TargetPath: d.TargetPath,
		Bytes:      d.Bytes,
	})
	if err != nil {
		logging.WarnWithContext(logger, "history update failed", "history_write_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "download not listed in history"),
			logging.String(logging.FieldErrorHint, "check the state directory is writable"),
		)
	}
}

// FilterLanguages keeps candidates whose language label matches one of
// wanted. Labels compare caseless, and labels naming the same language in
// different conventions ("en", "eng", "English", "英语") are equal. Combined
// labels such as "简体&英语" match when any part matches. An empty wanted list
// keeps every candidate. Order is preserved.
func FilterLanguages(candidates []SubInfo, wanted []string) []SubInfo {
	fold := cases.Fold()
	labels := make(map[string]struct{}, len(wanted))
	codes := make(map[string]struct{}, len(wanted))
	for _, lang := range wanted {
		trimmed := strings.TrimSpace(lang)
		if trimmed == "" {
			continue
		}
		labels[fold.String(trimmed)] = struct{}{}
		if code := language.Code(trimmed); code != "" {
			codes[code] = struct{}{}
		}
	}
	if len(labels) == 0 {
		return candidates
	}
	kept := make([]SubInfo, 0, len(candidates))
	for _, candidate := range candidates {
		if matchesLanguage(fold, candidate.Language, labels, codes) {
			kept = append(kept, candidate)
		}
	}
	return kept
}

func matchesLanguage(fold cases.Caser, label string, labels, codes map[string]struct{}) bool {
	parts := append([]string{strings.TrimSpace(label)}, language.Split(label)...)
	for _, part := range parts {
		if _, ok := labels[fold.String(part)]; ok {
			return true
		}
	}
	for _, code := range language.Codes(label) {
		if _, ok := codes[code]; ok {
			return true
		}
	}
	return false
}

func classifyIndexError(operation, subject string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	marker := services.ErrExternalTool
	if xunlei.IsRetriable(err) {
		marker = services.ErrTransient
	}
	return services.Wrap(marker, "xunlei", operation, subject, err)
}

func newIndexClient(cfg *config.Config) (*xunlei.Client, error) {
	client, err := xunlei.New(xunlei.Config{
		BaseURL:    cfg.Index.BaseURL,
		UserAgent:  cfg.Index.UserAgent,
		HTTPClient: &http.Client{Timeout: cfg.IndexTimeout()},
	})
	if err != nil {
		return nil, fmt.Errorf("index client: %w", err)
	}
	return client, nil
}
