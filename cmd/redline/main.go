// Command redline computes tracked-changes-annotated document trees from
// before/after snapshots. It provides commands for diffing snapshot files,
// inspecting annotated trees, managing a snapshot store, and serving the
// REST API.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"github.com/openredline/redline/core/doc"
	"github.com/openredline/redline/core/revision"
	"github.com/openredline/redline/core/store"
	"github.com/openredline/redline/internal/api"
	"github.com/openredline/redline/internal/logging"
	"github.com/openredline/redline/internal/ooxml"
	"github.com/openredline/redline/internal/query"
	"github.com/openredline/redline/internal/report"
	"github.com/openredline/redline/internal/snapshotio"
)

const version = "0.2.0"

// CLI defines the command-line interface for redline.
var CLI struct {
	// Global flags
	LogLevel string `name:"log-level" help:"Log level (debug, info, warn, error)" default:"info"`

	// Command groups (noun-first organization)
	Diff     DiffCmd       `cmd:"" help:"Compute tracked changes between two snapshot files"`
	Inspect  InspectCmd    `cmd:"" help:"List revision records of an annotated snapshot"`
	InferID  InferIDCmd    `cmd:"" name:"infer-id" help:"Report the next free revision ID of a document"`
	Snapshot SnapshotGroup `cmd:"" help:"Snapshot store operations (save, list, diff, delete)"`
	Serve    ServeCmd      `cmd:"" help:"Start REST API server"`
	Version  VersionCmd    `cmd:"" help:"Print version information"`
}

// SnapshotGroup contains snapshot store operations.
type SnapshotGroup struct {
	Save   SnapshotSaveCmd   `cmd:"" help:"Save a snapshot file into the store"`
	List   SnapshotListCmd   `cmd:"" help:"List stored snapshots"`
	Diff   SnapshotDiffCmd   `cmd:"" help:"Diff two stored snapshots and record the run"`
	Delete SnapshotDeleteCmd `cmd:"" help:"Delete a stored snapshot"`
}

// DiffCmd computes tracked changes between two snapshot files.
type DiffCmd struct {
	Previous string `arg:"" help:"Previous snapshot (.json or .json.xz)" type:"existingfile"`
	Current  string `arg:"" help:"Current snapshot (.json or .json.xz)" type:"existingfile"`
	Out      string `help:"Output path (default stdout)" type:"path"`

	Author      string `help:"Revision author stamped on tracked changes"`
	Date        string `help:"Revision date stamped on tracked changes (RFC 3339)"`
	StartID     int    `help:"First revision ID to allocate" default:"1"`
	RSID        string `help:"Revision save session ID stamped on tracked changes"`
	AutoRSID    bool   `name:"auto-rsid" help:"Generate a fresh RSID for this run"`
	NoMoves     bool   `name:"no-moves" help:"Disable move detection"`
	RunMoves    bool   `name:"run-moves" help:"Detect inline run-level moves"`
	Lookahead   int    `help:"Block aligner resynchronization window" default:"64"`
	Text        bool   `help:"Also print a plain-text diff to stderr"`
	SummaryOnly bool   `name:"summary" help:"Print only the revision summary"`
}

func (c *DiffCmd) Run() error {
	prev, err := snapshotio.Read(c.Previous)
	if err != nil {
		return err
	}
	curr, err := snapshotio.Read(c.Current)
	if err != nil {
		return err
	}

	opts := c.options()
	annotated := revision.Revisionize(prev, curr, opts)
	records := report.Extract(annotated)

	if c.Text {
		fmt.Fprint(os.Stderr, report.TextDiff(prev, curr))
	}
	if c.SummaryOnly {
		fmt.Print(report.Summarize(records).Format())
		return nil
	}
	if c.Out != "" {
		if err := snapshotio.Write(c.Out, annotated); err != nil {
			return err
		}
		fmt.Print(report.Summarize(records).Format())
		return nil
	}
	return snapshotio.Encode(os.Stdout, annotated, false)
}

func (c *DiffCmd) options() *revision.Options {
	rsid := c.RSID
	if c.AutoRSID {
		rsid = strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	}
	opts := &revision.Options{
		Allocator:            revision.NewAllocator(c.StartID),
		FallbackAuthor:       c.Author,
		RSID:                 rsid,
		DisableMoveDetection: c.NoMoves,
		Lookahead:            c.Lookahead,
		MoveDetection: revision.MoveDetectionOptions{
			DetectRunMoves: c.RunMoves,
		},
	}
	if c.Date != "" {
		opts.InsertionMetadata = &revision.Metadata{Date: c.Date}
		opts.DeletionMetadata = &revision.Metadata{Date: c.Date}
	}
	return opts
}

// InspectCmd lists revision records of an annotated snapshot.
type InspectCmd struct {
	Path     string `arg:"" help:"Annotated snapshot file" type:"existingfile"`
	Filter   string `help:"Filter expression (e.g. 'kind = insertion and id > 10')"`
	JSON     bool   `help:"Emit records as JSON"`
	Validate bool   `help:"Check structural invariants and report violations"`
}

func (c *InspectCmd) Run() error {
	d, err := snapshotio.Read(c.Path)
	if err != nil {
		return err
	}
	if c.Validate {
		if errs := doc.ValidateDocument(d); len(errs) > 0 {
			for _, e := range errs {
				fmt.Fprintf(os.Stderr, "invalid: %v\n", e)
			}
			return fmt.Errorf("%d structural violations", len(errs))
		}
	}
	filter, err := query.Parse(c.Filter)
	if err != nil {
		return err
	}
	records := filter.Apply(report.Extract(d))

	if c.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}
	for _, r := range records {
		fmt.Printf("%5d  %-22s block %-3d %s %s  %q\n",
			r.ID, r.Kind, r.BlockIndex, r.Author, r.Date, r.Text)
	}
	fmt.Print(report.Summarize(records).Format())
	return nil
}

// InferIDCmd reports the next free revision ID of a document.
type InferIDCmd struct {
	Path     string `arg:"" help:"Snapshot file, document.xml or .docx" type:"existingfile"`
	FromDocx bool   `name:"from-docx" help:"Treat the input as a .docx container"`
	FromXML  bool   `name:"from-xml" help:"Treat the input as raw WordprocessingML"`
}

func (c *InferIDCmd) Run() error {
	max, err := c.maxID()
	if err != nil {
		return err
	}
	fmt.Printf("max revision ID: %d\nnext free ID:    %d\n", max, max+1)
	return nil
}

func (c *InferIDCmd) maxID() (int, error) {
	switch {
	case c.FromDocx || strings.HasSuffix(c.Path, ".docx"):
		return ooxml.MaxRevisionIDFromDocx(c.Path)
	case c.FromXML || strings.HasSuffix(c.Path, ".xml"):
		f, err := os.Open(c.Path)
		if err != nil {
			return 0, err
		}
		defer f.Close()
		return ooxml.MaxRevisionID(f)
	default:
		d, err := snapshotio.Read(c.Path)
		if err != nil {
			return 0, err
		}
		return revision.InferMaxRevisionID(d), nil
	}
}

// SnapshotSaveCmd saves a snapshot file into the store.
type SnapshotSaveCmd struct {
	Store string `help:"Store path" default:"redline.db" type:"path"`
	Label string `arg:"" help:"Snapshot label"`
	Path  string `arg:"" help:"Snapshot file" type:"existingfile"`
}

func (c *SnapshotSaveCmd) Run() error {
	d, err := snapshotio.Read(c.Path)
	if err != nil {
		return err
	}
	st, err := store.Open(c.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	hash, err := st.SaveSnapshot(context.Background(), c.Label, d)
	if err != nil {
		return err
	}
	fmt.Printf("saved %s (%s)\n", c.Label, hash[:12])
	return nil
}

// SnapshotListCmd lists stored snapshots.
type SnapshotListCmd struct {
	Store string `help:"Store path" default:"redline.db" type:"path"`
}

func (c *SnapshotListCmd) Run() error {
	st, err := store.Open(c.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	infos, err := st.ListSnapshots(context.Background())
	if err != nil {
		return err
	}
	for _, info := range infos {
		fmt.Printf("%-24s %s  %7d bytes  %s\n",
			info.Label, info.Hash[:12], info.SizeBytes,
			info.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

// SnapshotDiffCmd diffs two stored snapshots and records the run.
type SnapshotDiffCmd struct {
	Store    string `help:"Store path" default:"redline.db" type:"path"`
	Previous string `arg:"" help:"Previous snapshot label"`
	Current  string `arg:"" help:"Current snapshot label"`
	Author   string `help:"Revision author stamped on tracked changes"`
	Out      string `help:"Also write the annotated tree to a file" type:"path"`
}

func (c *SnapshotDiffCmd) Run() error {
	st, err := store.Open(c.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	prev, err := st.LoadSnapshot(ctx, c.Previous)
	if err != nil {
		return err
	}
	curr, err := st.LoadSnapshot(ctx, c.Current)
	if err != nil {
		return err
	}

	// Seed past any IDs the previous (possibly annotated) snapshot uses.
	annotated := revision.Revisionize(prev, curr, &revision.Options{
		Allocator:      revision.NewAllocatorAfterDocument(prev),
		FallbackAuthor: c.Author,
	})
	records := report.Extract(annotated)
	id, err := st.SaveRun(ctx, c.Previous, c.Current, annotated, len(records))
	if err != nil {
		return err
	}

	fmt.Printf("run %d: %s -> %s\n", id, c.Previous, c.Current)
	fmt.Print(report.Summarize(records).Format())
	if c.Out != "" {
		return snapshotio.Write(c.Out, annotated)
	}
	return nil
}

// SnapshotDeleteCmd deletes a stored snapshot.
type SnapshotDeleteCmd struct {
	Store string `help:"Store path" default:"redline.db" type:"path"`
	Label string `arg:"" help:"Snapshot label"`
}

func (c *SnapshotDeleteCmd) Run() error {
	st, err := store.Open(c.Store)
	if err != nil {
		return err
	}
	defer st.Close()
	return st.DeleteSnapshot(context.Background(), c.Label)
}

// ServeCmd starts the REST API server.
type ServeCmd struct {
	Port    int      `help:"HTTP server port" default:"8080"`
	Store   string   `help:"Store path" default:"redline.db" type:"path"`
	Origins []string `help:"CORS allowed origins (empty = allow all)"`
}

func (c *ServeCmd) Run() error {
	return api.Start(api.Config{
		Port:           c.Port,
		StorePath:      c.Store,
		AllowedOrigins: c.Origins,
	})
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("redline %s\n", version)
	return nil
}

func initLogging(level string) {
	switch level {
	case "debug":
		logging.InitLogger(logging.LevelDebug, logging.FormatText)
	case "warn":
		logging.InitLogger(logging.LevelWarn, logging.FormatText)
	case "error":
		logging.InitLogger(logging.LevelError, logging.FormatText)
	default:
		logging.InitLogger(logging.LevelInfo, logging.FormatText)
	}
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("redline"),
		kong.Description("OpenRedline - diff-on-save tracked changes engine"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	initLogging(CLI.LogLevel)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
