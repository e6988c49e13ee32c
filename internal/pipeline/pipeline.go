// Package pipeline imports bank exports from a repo's inbox into its journal.
//
// For every CSV under import/ it picks the configured bank feed, parses the
// file, skips references already in the import history, resolves rules and
// bank categories, asks the entry factory for balanced lines, and posts them.
// Each outcome is recorded in the history database and the activity log.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/cleared-dev/autojournal/internal/accounts"
	"github.com/cleared-dev/autojournal/internal/activitylog"
	"github.com/cleared-dev/autojournal/internal/categorize"
	"github.com/cleared-dev/autojournal/internal/config"
	"github.com/cleared-dev/autojournal/internal/entries"
	"github.com/cleared-dev/autojournal/internal/gitops"
	"github.com/cleared-dev/autojournal/internal/history"
	"github.com/cleared-dev/autojournal/internal/importer"
	"github.com/cleared-dev/autojournal/internal/journal"
	"github.com/cleared-dev/autojournal/internal/model"
)

// Confidence assigned to an entry by how its account or kind was decided.
var (
	ConfidenceRule         = decimal.RequireFromString("0.95")
	ConfidenceBankCategory = decimal.RequireFromString("0.90")
	ConfidenceKeyword      = decimal.RequireFromString("0.80")
	ConfidencePolarity     = decimal.RequireFromString("0.50")
)

// Deps are the services a Pipeline runs against.
type Deps struct {
	RepoRoot    string
	Config      *config.Config
	Accounts    *accounts.Service
	Journal     *journal.Service
	Categorizer *categorize.Categorizer
	History     *history.Store
	Registry    *importer.Registry
	Log         logrus.FieldLogger
	Now         func() time.Time
}

// Options control a single Run.
type Options struct {
	DryRun bool
}

// Pipeline runs imports for one repo. It is not safe for concurrent Runs.
type Pipeline struct {
	deps      Deps
	factories map[string]*entries.Factory
}

// New returns a Pipeline. RepoRoot, Config, Accounts, Journal, Categorizer
// and History are required; Registry, Log and Now have defaults.
func New(deps Deps) (*Pipeline, error) {
	switch {
	case deps.RepoRoot == "":
		return nil, errors.New("pipeline: repo root is required")
	case deps.Config == nil:
		return nil, errors.New("pipeline: config is required")
	case deps.Accounts == nil:
		return nil, errors.New("pipeline: accounts are required")
	case deps.Journal == nil:
		return nil, errors.New("pipeline: journal is required")
	case deps.Categorizer == nil:
		return nil, errors.New("pipeline: categorizer is required")
	case deps.History == nil:
		return nil, errors.New("pipeline: history store is required")
	}
	if deps.Registry == nil {
		deps.Registry = importer.DefaultRegistry()
	}
	if deps.Log == nil {
		deps.Log = logrus.StandardLogger()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Pipeline{deps: deps, factories: make(map[string]*entries.Factory)}, nil
}

// Open loads config, chart, rules and import history from repoRoot and
// returns a ready Pipeline. Call Close when done.
func Open(repoRoot string, log logrus.FieldLogger) (*Pipeline, error) {
	cfg, err := config.Load(filepath.Join(repoRoot, config.FileName))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	accts, err := accounts.Load(repoRoot)
	if err != nil {
		return nil, fmt.Errorf("loading accounts: %w", err)
	}
	if err := accts.CheckRoles(cfg.Journal.Accounts); err != nil {
		return nil, err
	}

	rules, err := categorize.LoadRules(filepath.Join(repoRoot, categorize.RulesPath))
	if err != nil {
		return nil, fmt.Errorf("loading rules: %w", err)
	}
	categorizer, err := categorize.New(rules, cfg.Journal.Accounts, accts)
	if err != nil {
		return nil, fmt.Errorf("invalid categorization rules: %w", err)
	}

	store, err := history.Open(filepath.Join(repoRoot, history.DefaultPath))
	if err != nil {
		return nil, err
	}

	p, err := New(Deps{
		RepoRoot:    repoRoot,
		Config:      cfg,
		Accounts:    accts,
		Journal:     journal.NewService(repoRoot, accts),
		Categorizer: categorizer,
		History:     store,
		Log:         log,
	})
	if err != nil {
		store.Close()
		return nil, err
	}
	return p, nil
}

// Close releases the history database.
func (p *Pipeline) Close() error {
	return p.deps.History.Close()
}

// Config returns the loaded configuration.
func (p *Pipeline) Config() *config.Config {
	return p.deps.Config
}

// Run imports every CSV in the inbox. A failing transaction is logged and
// counted without stopping its file; a file with failures stays in the
// inbox so it can be retried once rules or config are fixed. The returned
// error is reserved for problems that stop the whole run.
func (p *Pipeline) Run(ctx context.Context, opts Options) (Summary, error) {
	var sum Summary
	sum.DryRun = opts.DryRun

	files, err := importer.Scan(p.deps.RepoRoot)
	if err != nil {
		return sum, err
	}
	if len(files) == 0 {
		p.deps.Log.Info("No files to import")
		return sum, nil
	}

	seen := make(map[string]bool)
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		fs, err := p.importFile(ctx, file, opts, seen)
		sum.add(fs)
		if err != nil {
			return sum, err
		}
	}

	if opts.DryRun {
		return sum, nil
	}
	if err := activitylog.Append(p.deps.RepoRoot, sum.activity(p.deps.Now())); err != nil {
		return sum, fmt.Errorf("writing activity log: %w", err)
	}
	if err := p.commit(&sum); err != nil {
		return sum, err
	}
	return sum, nil
}

func (p *Pipeline) importFile(ctx context.Context, file importer.FileInfo, opts Options, seen map[string]bool) (FileSummary, error) {
	fs := FileSummary{Name: file.Name}
	log := p.deps.Log.WithField("file", file.Name)

	feed, ok := p.deps.Config.BankAccountFor(file.Name)
	if !ok {
		log.Warn("No bank account matches file name; leaving it in the inbox")
		fs.Err = errors.New("no bank account matches file name")
		return fs, nil
	}
	fs.BankAccount = feed.Name

	factory, err := p.factory(feed)
	if err != nil {
		log.WithError(err).Error("Cannot build journal entries for bank account")
		fs.Err = err
		return fs, nil
	}

	parser := p.deps.Registry.Get(feed.Format)
	if parser == nil {
		fs.Err = fmt.Errorf("no parser for format %q (known: %s)", feed.Format, strings.Join(p.deps.Registry.Formats(), ", "))
		log.WithError(fs.Err).Error("Skipping file")
		return fs, nil
	}
	txns, err := importer.ParseFile(parser, file.Path)
	if err != nil {
		log.WithError(err).Error("Skipping unparseable file")
		fs.Err = err
		return fs, nil
	}
	log.WithField("transactions", len(txns)).Info("Parsed file")
	if prior, err := p.deps.History.FileEntries(ctx, file.Name); err != nil {
		log.WithError(err).Warn("Could not read import history for file")
	} else if prior > 0 {
		log.WithField("previously_imported", prior).Info("File name seen before; matching references count as duplicates")
	}

	for _, txn := range txns {
		if err := ctx.Err(); err != nil {
			return fs, err
		}
		res := p.importTransaction(ctx, file.Name, feed, factory, txn, opts, seen)
		fs.Results = append(fs.Results, res)
	}

	if opts.DryRun || fs.Failed() > 0 {
		return fs, nil
	}
	archived, err := importer.MarkProcessed(p.deps.RepoRoot, file.Name)
	if err != nil {
		return fs, err
	}
	fs.Processed = true
	if archived != file.Name {
		fs.ArchivedAs = archived
		log.WithField("archived_as", archived).Info("Processed file name taken; archived under a new name")
	}
	return fs, nil
}

// factory returns the entry factory for feed, whose account stands in for cash.
func (p *Pipeline) factory(feed config.BankAccount) (*entries.Factory, error) {
	if f, ok := p.factories[feed.Name]; ok {
		return f, nil
	}
	roles := p.deps.Config.Roles(feed)
	if err := p.deps.Accounts.CheckRoles(roles); err != nil {
		return nil, err
	}
	f, err := entries.NewFactory(roles, p.deps.Log.WithField("bank_account", feed.Name))
	if err != nil {
		return nil, err
	}
	p.factories[feed.Name] = f
	return f, nil
}

func (p *Pipeline) importTransaction(
	ctx context.Context,
	fileName string,
	feed config.BankAccount,
	factory *entries.Factory,
	txn model.BankTransaction,
	opts Options,
	seen map[string]bool,
) Result {
	res := Result{
		File:        fileName,
		Reference:   txn.Reference,
		Date:        txn.Date,
		Description: txn.Description,
		Amount:      txn.Amount,
	}
	log := p.deps.Log.WithFields(logrus.Fields{"file": fileName, "reference": txn.Reference})

	posted, err := p.deps.History.IsPosted(ctx, txn.Reference)
	if err != nil {
		return res.fail(log, err)
	}
	if posted || seen[txn.Reference] {
		res.Action = activitylog.ActionDuplicate
		log.Debug("Already imported")
		return res
	}
	seen[txn.Reference] = true

	// Card verification holds and similar rows move no money.
	if txn.Amount.IsZero() {
		res.Action = activitylog.ActionSkipped
		res.Details = "zero amount: nothing to post"
		log.Info("Skipping zero-amount transaction")
		if !opts.DryRun {
			p.record(ctx, log, fileName, feed, res)
		}
		return res
	}

	etxn, decision := p.decide(txn)
	res.Kind = entries.Classify(etxn).Kind
	res.Confidence = decision.confidence
	res.Status = p.status(decision.confidence)
	log = log.WithField("kind", res.Kind)

	lines, err := factory.CreateJournalEntries(etxn)
	if err != nil {
		return res.fail(log, err)
	}
	res.Lines = lines

	if len(lines) == 0 {
		res.Action = activitylog.ActionSkipped
		res.Details = fmt.Sprintf("%s: nothing to post", res.Kind)
	} else {
		res.Action = activitylog.ActionPosted
	}
	if opts.DryRun {
		return res
	}

	if len(lines) > 0 {
		res.EntryID, err = p.deps.Journal.Post(journal.PostParams{
			Date:         txn.Date,
			Lines:        lines,
			Counterparty: decision.counterparty,
			Reference:    txn.Reference,
			Kind:         string(res.Kind),
			Confidence:   decision.confidence,
			Status:       res.Status,
			Evidence:     decision.evidence,
			Tags:         p.tags(decision.confidence),
		})
		if err != nil {
			return res.fail(log, err)
		}
		log = log.WithField("entry_id", res.EntryID)
	}

	p.record(ctx, log, fileName, feed, res)

	log.WithField("status", res.Status).Info("Imported transaction")
	return res
}

// record notes res in the import history so a rerun treats it as a duplicate.
func (p *Pipeline) record(ctx context.Context, log logrus.FieldLogger, fileName string, feed config.BankAccount, res Result) {
	err := p.deps.History.Record(ctx, history.Record{
		Reference:   res.Reference,
		SourceFile:  fileName,
		BankAccount: feed.Name,
		Date:        res.Date,
		Amount:      res.Amount,
		Kind:        string(res.Kind),
		EntryID:     res.EntryID,
		ImportedAt:  p.deps.Now(),
	})
	if err != nil {
		// A posted entry is already in the journal; a rerun would post it again.
		log.WithError(err).Warn("Could not record import history")
	}
}

type decision struct {
	confidence   decimal.Decimal
	counterparty string
	evidence     string
}

// decide builds the factory input for txn and scores how it was classified.
func (p *Pipeline) decide(txn model.BankTransaction) (entries.Transaction, decision) {
	etxn := entries.Transaction{
		Description: txn.Description,
		Amount:      txn.Amount.Abs(),
		Polarity:    entries.PolarityDebit,
	}
	if txn.IsInflow() {
		etxn.Polarity = entries.PolarityCredit
	}
	d := decision{counterparty: txn.Merchant}

	match, ok := p.deps.Categorizer.Categorize(categorize.Input{
		Description: txn.Description,
		Merchant:    txn.Merchant,
		Category:    txn.Category,
	})
	if ok {
		etxn.Kind = match.Kind
		etxn.CategoryID = match.AccountID
		if match.Counterparty != "" {
			d.counterparty = match.Counterparty
		}
		d.evidence = match.Evidence
		d.confidence = ConfidenceRule
		if match.Source == categorize.SourceBankCategory {
			d.confidence = ConfidenceBankCategory
		}
		return etxn, d
	}

	cls := entries.Classify(etxn)
	switch cls.Source {
	case entries.SourceKeyword:
		d.confidence = ConfidenceKeyword
		d.evidence = "keyword: " + cls.Keyword
	default:
		d.confidence = ConfidencePolarity
		d.evidence = fmt.Sprintf("default for %s", etxn.Polarity)
	}
	return etxn, d
}

func (p *Pipeline) status(confidence decimal.Decimal) model.EntryStatus {
	if confidence.GreaterThanOrEqual(decimal.NewFromFloat(p.deps.Config.Thresholds.AutoConfirm)) {
		return model.StatusAutoConfirmed
	}
	return model.StatusPendingReview
}

// tags flags entries below the review threshold.
func (p *Pipeline) tags(confidence decimal.Decimal) string {
	if confidence.LessThan(decimal.NewFromFloat(p.deps.Config.Thresholds.ReviewFlag)) {
		return "low-confidence"
	}
	return ""
}

func (p *Pipeline) commit(sum *Summary) error {
	cfg := p.deps.Config.Git
	if !cfg.AutoCommit || (sum.Posted == 0 && len(sum.processedFiles()) == 0) {
		return nil
	}
	if !gitops.Available() || !gitops.IsRepo(p.deps.RepoRoot) {
		p.deps.Log.Warn("auto_commit is on but the repo is not a git repository; skipping commit")
		return nil
	}

	msg := fmt.Sprintf("import: %d entries from %s", sum.Posted, strings.Join(sum.processedFiles(), ", "))
	hash, err := gitops.CommitAll(p.deps.RepoRoot, msg, gitops.Author{Name: cfg.AuthorName, Email: cfg.AuthorEmail})
	if errors.Is(err, gitops.ErrNothingToCommit) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("committing import: %w", err)
	}
	sum.CommitHash = hash
	p.deps.Log.WithField("commit", hash).Info("Committed import")

	return activitylog.Append(p.deps.RepoRoot, []activitylog.Entry{{
		Timestamp:  p.deps.Now(),
		Action:     activitylog.ActionCommitted,
		Details:    msg,
		CommitHash: hash,
	}})
}
