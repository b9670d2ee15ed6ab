package main

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	kingpin "gopkg.in/alecthomas/kingpin.v2"

	"www.velocidex.com/golang/getthis/internal/config"
	"www.velocidex.com/golang/getthis/internal/finder"
	"www.velocidex.com/golang/getthis/internal/glogging"
	"www.velocidex.com/golang/getthis/internal/ingest"
	"www.velocidex.com/golang/getthis/internal/model"
	"www.velocidex.com/golang/getthis/internal/orchestrator"
	"www.velocidex.com/golang/getthis/internal/registry"
	"www.velocidex.com/golang/getthis/internal/reporter"
	"www.velocidex.com/golang/getthis/internal/sink"
	"www.velocidex.com/golang/getthis/internal/streampipe"
	"www.velocidex.com/golang/getthis/internal/sysinfo"
)

var (
	app = kingpin.New("getthis",
		"Collect forensic artifacts matching Yara rules from an NTFS volume.")

	configPath = app.Flag("config", "Path to the collection catalog (YAML).").
			Short('c').Required().String()

	outputOverride = app.Flag("output", "Override the catalog's output archive or directory path.").
			Short('o').String()

	logPath = app.Flag("logs", "Write the run's log to this file in addition to stderr.").
			Short('l').String()
)

// reportColumns is the fixed 28-column schema of spec.md §4.7.
var reportColumns = []string{
	"ComputerName", "VolumeSerial", "ParentDirReference", "FileRecordNumber",
	"FullPath", "SampleName", "Size", "MD5", "SHA1", "RuleDescription",
	"ContentTag", "CollectionDate", "CreationTime", "LastModificationTime",
	"LastAccessTime", "LastChangeTime", "FileNameCreationTime",
	"FileNameLastModificationTime", "FileNameLastAccessTime",
	"FileNameLastChangeTime", "AttributeType", "AttributeName", "InstanceID",
	"SnapshotID", "SHA256", "SSDeep", "TLSH", "YaraRules",
}

func main() {
	app.HelpFlag.Short('h')
	kingpin.MustParse(app.Parse(os.Args[1:]))

	catalog, err := config.Load(*configPath)
	kingpin.FatalIfError(err, "loading catalog %q", *configPath)

	effectiveLogPath := catalog.Output.LogPath
	if *logPath != "" {
		effectiveLogPath = *logPath
	}

	log, logFile, err := glogging.New(effectiveLogPath)
	kingpin.FatalIfError(err, "opening log file")
	if logFile != nil {
		defer logFile.Close()
	}

	runner := build(catalog, log)

	kingpin.FatalIfError(runner.Run(context.Background()), "collection run failed")
}

// build wires a catalog into a ready-to-run Orchestrator, the way
// bin/main.go wires a parsed config into a dispatched command. The
// Finder is left unset: this repo implements the collection pipeline
// around the FileFinder contract, not an NTFS volume reader or Yara
// engine, so Run reports a clear InvalidArgument error until a caller
// embedding this package supplies one.
func build(catalog *config.Catalog, log *logrus.Logger) *orchestrator.Orchestrator {
	globalLimits := catalog.Global.ToLimits()

	specsByTerm := map[string]*model.SampleSpec{}
	for _, sc := range catalog.Samples {
		terms := make([]*model.RuleDescriptor, 0, len(sc.Terms))
		for _, t := range sc.Terms {
			terms = append(terms, &model.RuleDescriptor{Description: t})
		}
		spec := &model.SampleSpec{
			Name:            sc.Name,
			Terms:           terms,
			Content:         sc.ToContentSpec(),
			PerSampleLimits: sc.Limits.ToLimits(),
		}
		for _, t := range sc.Terms {
			specsByTerm[t] = spec
		}
	}

	locations := make([]finder.Location, 0, len(catalog.Locations))
	for _, l := range catalog.Locations {
		locations = append(locations, finder.Location{Path: l.Path})
	}

	outputPath := catalog.Output.Archive
	if catalog.Output.Directory != "" {
		outputPath = catalog.Output.Directory
	}
	if *outputOverride != "" {
		outputPath = *outputOverride
	}

	rep := &reporter.Reporter{
		ComputerName: sysinfo.ComputerName(),
		ReportAll:    catalog.Output.ReportAll,
	}

	var dest sink.Sink
	if catalog.Output.Directory != "" {
		dest = &sink.DirectorySink{
			OutputDir: outputPath,
			Columns:   reportColumns,
			Reporter:  rep,
			Log:       log,
		}
	} else {
		dest = &sink.ArchiveSink{
			ArchivePath:      outputPath,
			Password:         catalog.Output.Password,
			CompressionLevel: catalog.Output.CompressionLevel,
			Columns:          reportColumns,
			Reporter:         rep,
			Log:              log,
		}
	}

	globalMin, globalMax := 4, 128
	buildPipeline := func(attr *model.AttributeRef, content model.ContentSpec) (*streampipe.Built, error) {
		base, err := streampipe.BaseStream(content, attr, globalMin, globalMax)
		if err != nil {
			return nil, err
		}
		return streampipe.BuildPipeline(base, streampipe.Config{
			CryptoAlgs: streampipe.MD5 | streampipe.SHA1 | streampipe.SHA256,
			FuzzyAlgs:  streampipe.SSDeep | streampipe.TLSH,
		}), nil
	}

	return &orchestrator.Orchestrator{
		Locations: locations,
		YaraRules: catalog.YaraRules,
		Ingestor: &ingest.Ingestor{
			Registry:       registry.New(),
			CollectionDate: time.Now().UTC(),
			BuildPipeline:  buildPipeline,
			Log:            log,
		},
		Sink:         dest,
		GlobalLimits: globalLimits,
		ResolveSpec: func(term *model.RuleDescriptor) *model.SampleSpec {
			if term == nil {
				return nil
			}
			return specsByTerm[term.Description]
		},
		Log:           log,
		Flusher:       sysinfo.NewRegistryFlusher(),
		FlushRegistry: catalog.FlushRegistry,
	}
}
