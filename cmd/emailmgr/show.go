package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/nhle/email-manager/internal/model"
	"github.com/nhle/email-manager/internal/store"
	"github.com/nhle/email-manager/internal/theme"
)

const timeLayout = "2006-01-02 15:04"

// cmdHistory prints the processing audit trail, newest first.
func cmdHistory(args []string) int {
	fs := pflag.NewFlagSet("history", pflag.ContinueOnError)
	configPath := fs.String("config", model.DefaultConfigPath(), "path to the configuration file")
	limit := fs.Int("limit", 20, "maximum records to show")
	failedOnly := fs.Bool("failed", false, "show only failed records")
	emailID := fs.String("email", "", "show records for one provider email id")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "emailmgr: %v\n", err)
		return 1
	}

	st, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "emailmgr: %v\n", err)
		return 1
	}
	defer st.Close()

	filter := store.HistoryFilter{Limit: *limit}
	if *failedOnly {
		success := false
		filter.Success = &success
	}
	if *emailID != "" {
		filter.EmailID = emailID
	}

	records, err := st.ListProcessingRecords(context.Background(), filter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "emailmgr: %v\n", err)
		return 1
	}

	if len(records) == 0 {
		fmt.Println(theme.SubtleStyle.Render("No processing records."))
		return 0
	}

	fmt.Println(theme.HeaderStyle.Render("Processing History"))
	for _, rec := range records {
		printRecord(rec)
	}
	return 0
}

func printRecord(rec model.ProcessingRecord) {
	action := theme.ActionStyle(string(rec.Action)).Render(string(rec.Action))
	category := theme.CategoryStyle(string(rec.Category)).Render(string(rec.Category))
	confidence := theme.ConfidenceStyle(rec.Confidence).
		Render(fmt.Sprintf("%.2f", rec.Confidence))

	fmt.Printf("%s  %-30s %-32s %s  %s\n",
		theme.SubtleStyle.Render(rec.ProcessedAt.Local().Format(timeLayout)),
		action,
		category,
		confidence,
		rec.EmailID,
	)
	if rec.ErrorMessage != "" {
		fmt.Printf("    %s\n", theme.ErrorStyle.Render(rec.ErrorMessage))
	}
}

// cmdArchive prints archived summaries, newest first.
func cmdArchive(args []string) int {
	fs := pflag.NewFlagSet("archive", pflag.ContinueOnError)
	configPath := fs.String("config", model.DefaultConfigPath(), "path to the configuration file")
	limit := fs.Int("limit", 20, "maximum entries to show")
	category := fs.String("category", "", "filter by category")
	search := fs.String("search", "", "match subject or sender")
	full := fs.Bool("full", false, "include the archived body text")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "emailmgr: %v\n", err)
		return 1
	}

	st, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "emailmgr: %v\n", err)
		return 1
	}
	defer st.Close()

	filter := store.ArchiveFilter{Limit: *limit}
	if *category != "" {
		cat, err := model.ParseCategory(*category)
		if err != nil {
			fmt.Fprintf(os.Stderr, "emailmgr: %v\n", err)
			return 2
		}
		filter.Category = &cat
	}
	if *search != "" {
		filter.Query = search
	}

	entries, err := st.ListArchivedContent(context.Background(), filter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "emailmgr: %v\n", err)
		return 1
	}

	if len(entries) == 0 {
		fmt.Println(theme.SubtleStyle.Render("No archived emails."))
		return 0
	}

	fmt.Println(theme.HeaderStyle.Render("Archived Emails"))
	for i, entry := range entries {
		if i > 0 {
			fmt.Println()
		}
		printArchiveEntry(entry, *full)
	}
	return 0
}

func printArchiveEntry(entry model.ArchivedContent, full bool) {
	fmt.Printf("%s %s\n",
		theme.LabelStyle.Render(entry.Subject),
		theme.CategoryStyle(string(entry.Category)).Render(string(entry.Category)),
	)
	fmt.Printf("  %s\n", theme.SubtleStyle.Render(fmt.Sprintf("from %s, received %s",
		entry.Sender, entry.ReceivedAt.Local().Format(timeLayout))))

	for _, line := range strings.Split(entry.Summary, "\n") {
		if line == "" {
			continue
		}
		fmt.Printf("  %s\n", theme.SummaryStyle.Render("• "+line))
	}

	if full && entry.Content != "" {
		fmt.Println()
		fmt.Println(indent(entry.Content, "  "))
	}
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
