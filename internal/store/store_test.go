package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/nhle/email-manager/internal/model"
	"github.com/nhle/email-manager/internal/store"
	"github.com/nhle/email-manager/tests/testutil"
)

func TestMigrationsReachCurrentVersion(t *testing.T) {
	st := testutil.NewTestStore(t)

	version, err := st.SchemaVersion()
	if err != nil {
		t.Fatalf("schema version: %v", err)
	}
	if version != 2 {
		t.Fatalf("expected schema version 2, got %d", version)
	}
}

func TestDiscardedEmailRoundTrip(t *testing.T) {
	st := testutil.NewTestStore(t)
	ctx := context.Background()

	rec := model.DiscardedEmail{
		EmailID: "msg-1",
		Subject: "50% off everything",
		Sender:  "deals@shop.example",
		Content: "huge sale this weekend",
	}
	if err := st.CreateDiscardedEmail(ctx, rec); err != nil {
		t.Fatalf("create discarded: %v", err)
	}

	got, err := st.GetDiscardedEmail(ctx, "msg-1")
	if err != nil {
		t.Fatalf("get discarded: %v", err)
	}
	if got == nil {
		t.Fatal("expected a record, got nil")
	}
	if got.ID == "" {
		t.Fatal("expected generated record id")
	}
	if got.Subject != rec.Subject || got.Sender != rec.Sender || got.Content != rec.Content {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.DeletedAt.IsZero() {
		t.Fatal("expected deleted_at to be stamped")
	}

	missing, err := st.GetDiscardedEmail(ctx, "never-seen")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown email id, got %+v", missing)
	}
}

func TestDiscardedEmailDuplicateRejected(t *testing.T) {
	st := testutil.NewTestStore(t)
	ctx := context.Background()

	rec := model.DiscardedEmail{EmailID: "msg-2", Subject: "s", Sender: "a@b"}
	if err := st.CreateDiscardedEmail(ctx, rec); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if err := st.CreateDiscardedEmail(ctx, rec); err == nil {
		t.Fatal("expected duplicate email_id to be rejected")
	}
}

func TestDiscardedEmailRequiresEmailID(t *testing.T) {
	st := testutil.NewTestStore(t)

	err := st.CreateDiscardedEmail(context.Background(), model.DiscardedEmail{EmailID: "  "})
	if err == nil {
		t.Fatal("expected error for blank email id")
	}
}

func TestArchivedContentValidation(t *testing.T) {
	st := testutil.NewTestStore(t)
	ctx := context.Background()

	base := model.ArchivedContent{
		EmailID:    "msg-3",
		Subject:    "release notes",
		Sender:     "eng@corp.example",
		Content:    "details",
		Summary:    "one point",
		Category:   model.CategorySaveAndSummarize,
		ReceivedAt: time.Now().UTC(),
	}

	noID := base
	noID.EmailID = ""
	if err := st.CreateArchivedContent(ctx, noID); err == nil {
		t.Fatal("expected error for blank email id")
	}

	noSummary := base
	noSummary.Summary = "   "
	if err := st.CreateArchivedContent(ctx, noSummary); err == nil {
		t.Fatal("expected error for blank summary")
	}

	badCategory := base
	badCategory.Category = model.Category("junk")
	if err := st.CreateArchivedContent(ctx, badCategory); err == nil {
		t.Fatal("expected error for invalid category")
	}

	if err := st.CreateArchivedContent(ctx, base); err != nil {
		t.Fatalf("valid create: %v", err)
	}
	if err := st.CreateArchivedContent(ctx, base); err == nil {
		t.Fatal("expected duplicate email_id to be rejected")
	}
}

func TestArchivedContentListFilters(t *testing.T) {
	st := testutil.NewTestStore(t)
	ctx := context.Background()

	day := 24 * time.Hour
	entries := []model.ArchivedContent{
		{
			EmailID:    "arc-1",
			Subject:    "Kubernetes digest",
			Sender:     "news@infra.example",
			Content:    "c1",
			Summary:    "s1",
			Category:   model.CategorySaveAndSummarize,
			ReceivedAt: time.Now().UTC().Add(-2 * day),
		},
		{
			EmailID:    "arc-2",
			Subject:    "quarterly report",
			Sender:     "finance@corp.example",
			Content:    "c2",
			Summary:    "s2",
			Category:   model.CategoryImportant,
			ReceivedAt: time.Now().UTC().Add(-1 * day),
		},
		{
			EmailID:    "arc-3",
			Subject:    "Go release announcement",
			Sender:     "news@infra.example",
			Content:    "c3",
			Summary:    "s3",
			Category:   model.CategorySaveAndSummarize,
			ReceivedAt: time.Now().UTC(),
		},
	}
	for _, e := range entries {
		if err := st.CreateArchivedContent(ctx, e); err != nil {
			t.Fatalf("create %s: %v", e.EmailID, err)
		}
	}

	all, err := st.ListArchivedContent(ctx, store.ArchiveFilter{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(all))
	}
	if all[0].EmailID != "arc-3" || all[2].EmailID != "arc-1" {
		t.Fatalf("expected newest received first, got %s, %s, %s",
			all[0].EmailID, all[1].EmailID, all[2].EmailID)
	}

	cat := model.CategorySaveAndSummarize
	saved, err := st.ListArchivedContent(ctx, store.ArchiveFilter{Category: &cat})
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if len(saved) != 2 {
		t.Fatalf("expected 2 save_and_summarize entries, got %d", len(saved))
	}

	q := "Kubernetes"
	bySubject, err := st.ListArchivedContent(ctx, store.ArchiveFilter{Query: &q})
	if err != nil {
		t.Fatalf("list by subject: %v", err)
	}
	if len(bySubject) != 1 || bySubject[0].EmailID != "arc-1" {
		t.Fatalf("expected arc-1 for subject query, got %+v", bySubject)
	}

	q = "infra.example"
	bySender, err := st.ListArchivedContent(ctx, store.ArchiveFilter{Query: &q})
	if err != nil {
		t.Fatalf("list by sender: %v", err)
	}
	if len(bySender) != 2 {
		t.Fatalf("expected 2 entries for sender query, got %d", len(bySender))
	}

	limited, err := st.ListArchivedContent(ctx, store.ArchiveFilter{Limit: 1})
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 1 || limited[0].EmailID != "arc-3" {
		t.Fatalf("expected only arc-3 with limit 1, got %+v", limited)
	}
}

func TestProcessingRecordValidation(t *testing.T) {
	st := testutil.NewTestStore(t)
	ctx := context.Background()

	valid := model.ProcessingRecord{
		EmailID:  "msg-4",
		Action:   model.ActionProcessed,
		Category: model.CategoryImportant,
		Success:  true,
	}

	noID := valid
	noID.EmailID = ""
	if err := st.CreateProcessingRecord(ctx, noID); err == nil {
		t.Fatal("expected error for blank email id")
	}

	badAction := valid
	badAction.Action = model.Action("retried")
	if err := st.CreateProcessingRecord(ctx, badAction); err == nil {
		t.Fatal("expected error for invalid action")
	}

	badCategory := valid
	badCategory.Category = model.Category("junk")
	if err := st.CreateProcessingRecord(ctx, badCategory); err == nil {
		t.Fatal("expected error for invalid category")
	}

	if err := st.CreateProcessingRecord(ctx, valid); err != nil {
		t.Fatalf("valid create: %v", err)
	}
}

func TestProcessingHistoryFiltersAndClear(t *testing.T) {
	st := testutil.NewTestStore(t)
	ctx := context.Background()

	first := model.ProcessingRecord{
		EmailID:    "m-1",
		Action:     model.ActionProcessed,
		Category:   model.CategoryNonEssential,
		Confidence: 0.93,
		Success:    true,
		Reasoning:  "newsletter",
	}
	if err := st.CreateProcessingRecord(ctx, first); err != nil {
		t.Fatalf("create first: %v", err)
	}

	// Distinct processed_at stamps so the order assertion is stable.
	time.Sleep(10 * time.Millisecond)

	second := model.ProcessingRecord{
		EmailID:      "m-2",
		Action:       model.ActionFailed,
		Category:     model.CategoryImportant,
		Confidence:   0.0,
		Success:      false,
		ErrorMessage: "analyzing email: timeout",
		Reasoning:    "Failed to process email",
	}
	if err := st.CreateProcessingRecord(ctx, second); err != nil {
		t.Fatalf("create second: %v", err)
	}

	all, err := st.ListProcessingRecords(ctx, store.HistoryFilter{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 records, got %d", len(all))
	}
	if all[0].EmailID != "m-2" {
		t.Fatalf("expected newest record first, got %s", all[0].EmailID)
	}

	failedOnly := false
	failed, err := st.ListProcessingRecords(ctx, store.HistoryFilter{Success: &failedOnly})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(failed) != 1 || failed[0].EmailID != "m-2" {
		t.Fatalf("expected only m-2, got %+v", failed)
	}
	if failed[0].ErrorMessage != "analyzing email: timeout" {
		t.Fatalf("error message lost: %+v", failed[0])
	}
	if failed[0].Reasoning != "Failed to process email" {
		t.Fatalf("reasoning lost: %+v", failed[0])
	}

	action := model.ActionProcessed
	processed, err := st.ListProcessingRecords(ctx, store.HistoryFilter{Action: &action})
	if err != nil {
		t.Fatalf("list processed: %v", err)
	}
	if len(processed) != 1 || processed[0].EmailID != "m-1" {
		t.Fatalf("expected only m-1, got %+v", processed)
	}
	if processed[0].Confidence != 0.93 {
		t.Fatalf("confidence lost on round trip: %f", processed[0].Confidence)
	}
	if !processed[0].Success {
		t.Fatalf("success flag lost: %+v", processed[0])
	}

	emailID := "m-1"
	byEmail, err := st.ListProcessingRecords(ctx, store.HistoryFilter{EmailID: &emailID})
	if err != nil {
		t.Fatalf("list by email: %v", err)
	}
	if len(byEmail) != 1 || byEmail[0].EmailID != "m-1" {
		t.Fatalf("expected only m-1, got %+v", byEmail)
	}

	limited, err := st.ListProcessingRecords(ctx, store.HistoryFilter{Limit: 1})
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected 1 record with limit 1, got %d", len(limited))
	}

	if err := st.ClearProcessingRecords(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	cleared, err := st.ListProcessingRecords(ctx, store.HistoryFilter{})
	if err != nil {
		t.Fatalf("list after clear: %v", err)
	}
	if len(cleared) != 0 {
		t.Fatalf("expected empty history after clear, got %d", len(cleared))
	}
}
