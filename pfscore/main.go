/*

Pfscore scores partitioning schemes of a multi-gene alignment with an
information criterion (AIC, AICc or BIC).

Every scheme is a JSON or YAML file listing its subsets with their
parameter count (or substitution model), log likelihood and number of
sites:

	pfscore score -c bic --taxa 24 --branchlengths unlinked scheme1.json scheme2.yml

The number of taxa can also be taken from a starting tree:

	pfscore compare --tree start.nwk schemes/*.json

To see all the options run:

	pfscore --help

*/
package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/op/go-logging"
	"gopkg.in/alecthomas/kingpin.v2"
)

// These three variables are set during the compilation.
var githash = ""
var gitbranch = ""
var buildstamp = ""
var version = "branch: " + gitbranch + ", revision: " + githash + ", build time: " + buildstamp

// Logger settings.
var log = logging.MustGetLogger("pfscore")
var formatter = logging.MustStringFormatter(`%{message}`)

// command-line options
var (
	// application
	app = kingpin.New("pfscore", "partitioning scheme scoring").Version(version)

	// settings, also available in the config file
	configF       = app.Flag("config", "YAML configuration file").ExistingFile()
	branchLengths = app.Flag("branchlengths", "branch lengths (linked or unlinked), linked by default").Short('b').String()
	criterion     = app.Flag("criterion", "model selection criterion (aic, aicc or bic), aicc by default").Short('c').String()
	numTaxa       = app.Flag("taxa", "number of taxa").Short('t').Int()
	treeF         = app.Flag("tree", "read the number of taxa from a newick tree").ExistingFile()
	modelsF       = app.Flag("models", "CSV file with model parameter counts "+
		"(name,matrix_params,basefreq_params,ratevar_params)").ExistingFile()
	databaseF = app.Flag("db", "subset database file").String()
	nThreads  = app.Flag("nt", "number of schemes scored in parallel").Int()

	// technical
	outLogF  = app.Flag("log", "write log to a file").String()
	logLevel = app.Flag("loglevel", "set loglevel "+
		"('critical', 'error', 'warning', 'notice', 'info', 'debug')").
		Default("notice").
		Enum("critical", "error", "warning", "notice", "info", "debug")
	jsonF = app.Flag("json", "write json output to a file").String()

	// commands
	scoreCmd     = app.Command("score", "score schemes")
	scoreSchemes = scoreCmd.Arg("scheme", "scheme files").Required().ExistingFiles()

	statsCmd     = app.Command("stats", "print log likelihood, free parameters and sites of schemes")
	statsSchemes = statsCmd.Arg("scheme", "scheme files").Required().ExistingFiles()

	compareCmd     = app.Command("compare", "score schemes and order them")
	compareSchemes = compareCmd.Arg("scheme", "scheme files").Required().ExistingFiles()

	lrtCmd = app.Command("lrt", "likelihood ratio test of nested schemes")
	lrtH0  = lrtCmd.Arg("h0", "scheme with fewer parameters").Required().ExistingFile()
	lrtH1  = lrtCmd.Arg("h1", "scheme with more parameters").Required().ExistingFile()

	plotCmd     = app.Command("plot", "plot scheme scores")
	plotSchemes = plotCmd.Arg("scheme", "scheme files").Required().ExistingFiles()
	plotOutF    = plotCmd.Flag("out", "image file (png, svg, pdf)").Default("scores.png").String()

	modelsCmd    = app.Command("models", "print the subset models for RAxML or MrBayes")
	modelsScheme = modelsCmd.Arg("scheme", "scheme file").Required().ExistingFile()
	modelsFormat = modelsCmd.Flag("format", "output format (raxml or mrbayes)").
		Default("raxml").Enum("raxml", "mrbayes")

	dbCmd        = app.Command("db", "subset database operations")
	dbImportCmd  = dbCmd.Command("import", "store the subsets of schemes")
	dbImportArgs = dbImportCmd.Arg("scheme", "scheme files").Required().ExistingFiles()
	dbListCmd    = dbCmd.Command("list", "list stored subsets")
)

// setupLogging configures the backend and the level of all loggers.
func setupLogging() (closeLog func()) {
	logging.SetFormatter(formatter)

	closeLog = func() {}
	var backend *logging.LogBackend
	if *outLogF != "" {
		f, err := os.OpenFile(*outLogF, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			log.Fatal("Error creating log file:", err)
		}
		closeLog = func() { f.Close() }
		backend = logging.NewLogBackend(f, "", 0)
	} else {
		backend = logging.NewLogBackend(os.Stderr, "", 0)
	}
	logging.SetBackend(backend)

	level, err := logging.LogLevel(*logLevel)
	if err != nil {
		log.Fatal(err)
	}
	for _, module := range []string{"pfscore", "scheme", "subsetdb"} {
		logging.SetLevel(level, module)
	}
	return closeLog
}

// settings merges the config file and the command line.
func settings() config {
	cfg, err := loadConfig(*configF)
	if err != nil {
		log.Fatal(err)
	}
	cfg.override(config{
		BranchLengths:  *branchLengths,
		ModelSelection: *criterion,
		NumTaxa:        *numTaxa,
		Tree:           *treeF,
		Models:         *modelsF,
		Database:       *databaseF,
		Threads:        *nThreads,
	})
	if err := cfg.validate(); err != nil {
		log.Fatal(err)
	}
	return cfg
}

func main() {
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	closeLog := setupLogging()
	defer closeLog()

	log.Info(version)
	log.Info("Command line:", os.Args)

	startTime := time.Now()
	cfg := settings()
	ctx := context.Background()

	summary := &Summary{
		Version:     version,
		CommandLine: os.Args,
	}

	var err error
	switch command {
	case scoreCmd.FullCommand():
		err = runScore(ctx, cfg, *scoreSchemes, summary)
	case statsCmd.FullCommand():
		err = runStats(ctx, cfg, *statsSchemes, summary)
	case compareCmd.FullCommand():
		err = runCompare(ctx, cfg, *compareSchemes, summary)
	case lrtCmd.FullCommand():
		err = runLRT(cfg, *lrtH0, *lrtH1, summary)
	case plotCmd.FullCommand():
		err = runPlot(ctx, cfg, *plotSchemes, *plotOutF, summary)
	case modelsCmd.FullCommand():
		err = runModels(cfg, *modelsScheme, *modelsFormat)
	case dbImportCmd.FullCommand():
		err = runDBImport(cfg, *dbImportArgs)
	case dbListCmd.FullCommand():
		err = runDBList(cfg)
	}
	if err != nil {
		log.Fatal(err)
	}

	summary.Time = time.Since(startTime).Seconds()
	log.Infof("Running time: %v", time.Since(startTime))

	// output summary in json format
	if *jsonF != "" {
		j, err := json.Marshal(summary)
		if err != nil {
			log.Error(err)
			return
		}
		log.Debug(string(j))
		if err := os.WriteFile(*jsonF, j, 0644); err != nil {
			log.Error("Error creating json output file:", err)
		}
	}
}
