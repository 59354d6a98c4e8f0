package main

import (
	"log"
	"os"
	"strconv"

	sc "spellcorrect/internal/corrector"
	"spellcorrect/pkg/options"
)

func main() {
	trainPath := getenv("CORPUS_PATH", "data/holbrook-tagged-train.dat")
	devPath := getenv("DEV_CORPUS_PATH", "data/holbrook-tagged-dev.dat")
	confusionPath := getenv("CONFUSION_PATH", "data/count_1edit.txt")
	workers := getEnvInt("WORKERS", 4)
	selfCount := getEnvInt("SELF_EDIT_COUNT", 100)

	train, err := sc.LoadCorpus(trainPath)
	if err != nil {
		log.Fatalf("init error: %v", err)
	}
	entries, err := sc.LoadConfusionTable(confusionPath)
	if err != nil {
		log.Fatalf("init error: %v", err)
	}
	channel, err := sc.NewChannelModel(entries, train.Vocab, options.WithSelfEditCount(selfCount))
	if err != nil {
		log.Fatalf("init error: %v", err)
	}

	dev, err := sc.LoadCorpus(devPath)
	if err != nil {
		log.Fatalf("init error: %v", err)
	}
	inputs, gold := sc.TestPairs(dev.GenerateTestCases())
	log.Printf("loaded %d training sentences, %d test cases", len(train.Sentences), len(inputs))

	uniform, err := sc.NewUniformModel(train)
	if err != nil {
		log.Fatalf("init error: %v", err)
	}
	unigram, err := sc.NewLaplaceUnigramModel(train)
	if err != nil {
		log.Fatalf("init error: %v", err)
	}
	bigram, err := sc.NewLaplaceBigramModel(train)
	if err != nil {
		log.Fatalf("init error: %v", err)
	}

	models := []struct {
		name string
		lm   sc.LanguageModel
	}{
		{"uniform", uniform},
		{"laplace unigram", unigram},
		{"laplace bigram", bigram},
	}
	for _, m := range models {
		corrector, err := sc.NewSpellCorrector(channel, m.lm, nil, options.WithWorkers(workers))
		if err != nil {
			log.Fatalf("init error: %v", err)
		}
		res, err := corrector.Evaluate(inputs, gold)
		if err != nil {
			log.Fatalf("evaluate error: %v", err)
		}
		log.Printf("%s: %s", m.name, res)
	}
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if i, err := strconv.Atoi(v); err == nil {
		return i
	}
	return def
}
