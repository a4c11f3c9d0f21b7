package verify

import (
	"context"
	"errors"
	"testing"

	"medley/internal/library"
	"medley/internal/services"
	"medley/internal/services/musicbrainz"
	"medley/internal/testsupport"
)

// stubAuthority answers lookups from a canned table, with an optional hook
// invoked before each answer.
type stubAuthority struct {
	answers map[string]*musicbrainz.Classification
	errs    map[string]error
	hook    func(req musicbrainz.Lookup)
	calls   []musicbrainz.Lookup
}

func (s *stubAuthority) Classify(ctx context.Context, req musicbrainz.Lookup) (*musicbrainz.Classification, error) {
	s.calls = append(s.calls, req)
	if s.hook != nil {
		s.hook(req)
	}
	if err, ok := s.errs[req.Title]; ok {
		return nil, err
	}
	if answer, ok := s.answers[req.Title]; ok {
		return answer, nil
	}
	return &musicbrainz.Classification{Found: false}, nil
}

func seedBorderline(t *testing.T, store *library.Store, title string, ratio float64, guessCompilation bool) *library.Album {
	t.Helper()

	album := testsupport.SeedAlbum(t, store, title, "Various Artists", false,
		[]string{"Artist A", "Artist A", "Artist B", "Artist C", "Artist D", "Artist D",
			"Artist E", "Artist F", "Artist A", "Artist B"})
	unique := 6
	share := 0.3
	classification := library.Classification{
		PrimaryType:     library.PrimaryAlbum,
		State:           library.StateBorderlinePending,
		DetectionReason: "high_diversity",
		Confidence:      0.5,
		DiversityRatio:  &ratio,
		UniqueArtists:   &unique,
		DominantShare:   &share,
	}
	if guessCompilation {
		classification.SecondaryTypes = []library.SecondaryType{library.SecondaryCompilation}
	}
	if err := store.ApplyClassification(context.Background(), album.ID, classification); err != nil {
		t.Fatalf("seed borderline %q: %v", title, err)
	}
	reloaded, err := store.GetByID(context.Background(), album.ID)
	if err != nil {
		t.Fatalf("reload %q: %v", title, err)
	}
	return reloaded
}

func TestVerifyConfirmsCompilation(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	album := seedBorderline(t, store, "Cafe del Mar Volumen Seis", 0.6, true)

	authority := &stubAuthority{answers: map[string]*musicbrainz.Classification{
		"Cafe del Mar Volumen Seis": {
			Found:          true,
			IsCompilation:  true,
			ReleaseGroupID: "rg-cafe",
			PrimaryType:    "Album",
			SecondaryTypes: []string{"Compilation", "DJ-mix"},
		},
	}}
	verifier := New(cfg, store, authority, nil)

	report, err := verifier.VerifyBorderline(context.Background(), Options{})
	if err != nil {
		t.Fatalf("VerifyBorderline: %v", err)
	}
	if len(report.Outcomes) != 1 || len(report.Failures) != 0 {
		t.Fatalf("outcomes=%d failures=%d, want 1/0", len(report.Outcomes), len(report.Failures))
	}
	if report.Outcomes[0].Status != StatusVerifiedCompilation {
		t.Errorf("status = %q, want %q", report.Outcomes[0].Status, StatusVerifiedCompilation)
	}

	updated, err := store.GetByID(context.Background(), album.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if updated.State != library.StateVerified {
		t.Errorf("state = %q, want verified", updated.State)
	}
	if updated.DetectionReason != "external_verified" {
		t.Errorf("reason = %q, want external_verified", updated.DetectionReason)
	}
	if updated.Confidence != 1.0 {
		t.Errorf("confidence = %v, want 1.0", updated.Confidence)
	}
	if updated.ReleaseGroupID != "rg-cafe" {
		t.Errorf("release group = %q, want rg-cafe", updated.ReleaseGroupID)
	}
	if !updated.IsCompilation() || !updated.HasSecondary(library.SecondaryDJMix) {
		t.Errorf("secondary types = %v, want compilation and dj_mix", updated.SecondaryTypes)
	}
}

func TestVerifyRefutesCompilationGuess(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	album := seedBorderline(t, store, "Duets", 0.55, true)

	authority := &stubAuthority{answers: map[string]*musicbrainz.Classification{
		"Duets": {Found: true, IsCompilation: false, ReleaseGroupID: "rg-duets", PrimaryType: "Album"},
	}}
	verifier := New(cfg, store, authority, nil)

	report, err := verifier.VerifyBorderline(context.Background(), Options{})
	if err != nil {
		t.Fatalf("VerifyBorderline: %v", err)
	}
	if report.Outcomes[0].Status != StatusVerifiedRegular {
		t.Errorf("status = %q, want %q", report.Outcomes[0].Status, StatusVerifiedRegular)
	}

	updated, err := store.GetByID(context.Background(), album.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if updated.State != library.StateVerified {
		t.Errorf("state = %q, want verified", updated.State)
	}
	if updated.IsCompilation() {
		t.Error("compilation tag should be removed when the authority refutes the guess")
	}
	// Albums guessed as compilations are searched by title alone; the
	// "Various Artists" credit only hurts the query.
	if len(authority.calls) != 1 || authority.calls[0].Artist != "" {
		t.Fatalf("authority calls = %+v, want one title-only lookup", authority.calls)
	}
}

func TestVerifyNoMatchSettlesGuess(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	album := seedBorderline(t, store, "Local Scene Sampler 2003", 0.6, true)

	verifier := New(cfg, store, &stubAuthority{}, nil)
	report, err := verifier.VerifyBorderline(context.Background(), Options{})
	if err != nil {
		t.Fatalf("VerifyBorderline: %v", err)
	}
	if report.Outcomes[0].Status != StatusSettled {
		t.Errorf("status = %q, want %q", report.Outcomes[0].Status, StatusSettled)
	}

	updated, err := store.GetByID(context.Background(), album.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if updated.State != library.StateDiversityClassified {
		t.Errorf("state = %q, want diversity_classified", updated.State)
	}
	if !updated.IsCompilation() {
		t.Error("settling keeps the diversity guess")
	}

	// Settled albums never come back in a later run.
	pending, err := store.ListBorderline(context.Background(), 0, 1, 100)
	if err != nil {
		t.Fatalf("ListBorderline: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("pending = %d, want 0", len(pending))
	}
}

func TestVerifyLookupFailureKeepsPending(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	album := seedBorderline(t, store, "Unreachable Mix", 0.6, false)

	authority := &stubAuthority{errs: map[string]error{
		"Unreachable Mix": services.Wrap(services.ErrExternalService, "musicbrainz", "classify", "retries exhausted", nil),
	}}
	verifier := New(cfg, store, authority, nil)

	report, err := verifier.VerifyBorderline(context.Background(), Options{})
	if err != nil {
		t.Fatalf("VerifyBorderline: %v", err)
	}
	if len(report.Outcomes) != 0 || len(report.Failures) != 1 {
		t.Fatalf("outcomes=%d failures=%d, want 0/1", len(report.Outcomes), len(report.Failures))
	}
	if !errors.Is(report.Failures[0].Err, services.ErrExternalService) {
		t.Errorf("failure error = %v", report.Failures[0].Err)
	}

	updated, err := store.GetByID(context.Background(), album.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if updated.State != library.StateBorderlinePending {
		t.Errorf("state = %q, want still pending", updated.State)
	}
}

func TestVerifyOverrideInFlightWins(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	album := seedBorderline(t, store, "Contested Album", 0.6, false)

	authority := &stubAuthority{
		answers: map[string]*musicbrainz.Classification{
			"Contested Album": {Found: true, IsCompilation: true, ReleaseGroupID: "rg-contested"},
		},
		hook: func(req musicbrainz.Lookup) {
			// Operator overrides while the lookup is in flight.
			if err := store.SetOverride(context.Background(), album.ID, false, "not a compilation"); err != nil {
				t.Errorf("SetOverride: %v", err)
			}
		},
	}
	verifier := New(cfg, store, authority, nil)

	report, err := verifier.VerifyBorderline(context.Background(), Options{})
	if err != nil {
		t.Fatalf("VerifyBorderline: %v", err)
	}
	if len(report.Outcomes) != 1 || report.Outcomes[0].Status != StatusOverridden {
		t.Fatalf("outcomes = %+v, want one overridden", report.Outcomes)
	}

	updated, err := store.GetByID(context.Background(), album.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if updated.State != library.StateManualOverride {
		t.Errorf("state = %q, want manual_override", updated.State)
	}
	if updated.IsCompilation() {
		t.Error("authority answer must not clobber the manual decision")
	}
}

func TestVerifyHonorsLimit(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	seedBorderline(t, store, "Sampler One", 0.55, true)
	seedBorderline(t, store, "Sampler Two", 0.6, true)
	seedBorderline(t, store, "Sampler Three", 0.65, true)

	authority := &stubAuthority{}
	verifier := New(cfg, store, authority, nil)

	report, err := verifier.VerifyBorderline(context.Background(), Options{Limit: 2})
	if err != nil {
		t.Fatalf("VerifyBorderline: %v", err)
	}
	if len(report.Outcomes) != 2 {
		t.Fatalf("outcomes = %d, want 2", len(report.Outcomes))
	}

	pending, err := store.ListBorderline(context.Background(), 0, 1, 100)
	if err != nil {
		t.Fatalf("ListBorderline: %v", err)
	}
	if len(pending) != 1 {
		t.Errorf("pending = %d, want 1", len(pending))
	}
}

func TestVerifyFailureAccountingSpansBatches(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Verification.BatchSize = 3
	store := testsupport.MustOpenStore(t, cfg)

	// More albums than one batch, every lookup failing: the failures from
	// the size-triggered flushes must be counted, not just the final one.
	titles := []string{"Mix One", "Mix Two", "Mix Three", "Mix Four", "Mix Five"}
	errs := make(map[string]error, len(titles))
	for _, title := range titles {
		seedBorderline(t, store, title, 0.6, true)
		errs[title] = services.Wrap(services.ErrExternalService, "musicbrainz", "classify", "retries exhausted", nil)
	}

	verifier := New(cfg, store, &stubAuthority{errs: errs}, nil)
	report, err := verifier.VerifyBorderline(context.Background(), Options{})
	if err != nil {
		t.Fatalf("VerifyBorderline: %v", err)
	}
	if len(report.Outcomes) != 0 {
		t.Errorf("outcomes = %d, want 0", len(report.Outcomes))
	}
	if len(report.Failures) != len(titles) {
		t.Fatalf("failures = %d, want %d", len(report.Failures), len(titles))
	}

	pending, err := store.ListBorderline(context.Background(), 0, 1, 100)
	if err != nil {
		t.Fatalf("ListBorderline: %v", err)
	}
	if len(pending) != len(titles) {
		t.Errorf("pending = %d, want %d", len(pending), len(titles))
	}
}

func TestVerifyHonorsExplicitLowerBound(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	seedBorderline(t, store, "Below Bound", 0.55, true)
	seedBorderline(t, store, "Above Bound", 0.65, true)

	authority := &stubAuthority{}
	verifier := New(cfg, store, authority, nil)

	// Only the lower bound is given; the upper bound falls back to the
	// configured high-diversity threshold instead of resetting both.
	report, err := verifier.VerifyBorderline(context.Background(), Options{MinRatio: 0.6})
	if err != nil {
		t.Fatalf("VerifyBorderline: %v", err)
	}
	if len(report.Outcomes) != 1 || report.Outcomes[0].Title != "Above Bound" {
		t.Fatalf("outcomes = %+v, want only the album above the bound", report.Outcomes)
	}

	pending, err := store.ListBorderline(context.Background(), 0, 1, 100)
	if err != nil {
		t.Fatalf("ListBorderline: %v", err)
	}
	if len(pending) != 1 || pending[0].Title != "Below Bound" {
		t.Errorf("pending = %+v, want only the album below the bound", pending)
	}
}

func TestVerifyEmptyQueueIsANoop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	authority := &stubAuthority{}
	verifier := New(cfg, store, authority, nil)

	report, err := verifier.VerifyBorderline(context.Background(), Options{})
	if err != nil {
		t.Fatalf("VerifyBorderline: %v", err)
	}
	if report.Total() != 0 {
		t.Errorf("report total = %d, want 0", report.Total())
	}
	if len(authority.calls) != 0 {
		t.Errorf("authority calls = %d, want 0", len(authority.calls))
	}
}
