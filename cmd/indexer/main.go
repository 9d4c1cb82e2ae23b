package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/zhcet-ai/advisor-engine/internal/app"
	"github.com/zhcet-ai/advisor-engine/internal/corpus"
)

func main() {
	var corpusPath string
	var outPath string
	flag.StringVar(&corpusPath, "corpus", "", "path to the ordinance corpus YAML")
	flag.StringVar(&outPath, "out", "", "where to write the index snapshot (default: POLICY_INDEX_PATH)")
	flag.Parse()

	if corpusPath == "" {
		fmt.Println("usage: indexer -corpus <yaml> [-out <path>]")
		os.Exit(1)
	}

	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	if outPath == "" {
		outPath = application.Cfg.PolicyIndexPath
	}

	src, err := corpus.LoadSource(corpusPath)
	if err != nil {
		fmt.Printf("load corpus: %v\n", err)
		os.Exit(1)
	}

	builder, err := corpus.NewBuilder(application.Gemini, application.Cfg.EmbedDim, application.Cfg.EmbedConcurrency, application.Log)
	if err != nil {
		fmt.Printf("init builder: %v\n", err)
		os.Exit(1)
	}

	index, err := builder.Build(context.Background(), src)
	if err != nil {
		fmt.Printf("build index: %v\n", err)
		os.Exit(1)
	}

	if err := index.Save(outPath); err != nil {
		fmt.Printf("save index: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Indexed %d chunks to %s\n", index.Len(), outPath)
}
