package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	sc "spellcorrect/internal/corrector"
	"spellcorrect/internal/customdict"
	"spellcorrect/pkg/options"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func main() {
	trainPath := getenv("CORPUS_PATH", "data/holbrook-tagged-train.dat")
	confusionPath := getenv("CONFUSION_PATH", "data/count_1edit.txt")
	modelName := getenv("LANGUAGE_MODEL", "bigram")
	selfCount := getEnvInt("SELF_EDIT_COUNT", 100)

	redisAddr := getenv("REDIS_ADDR", "localhost:6379")
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := getEnvInt("REDIS_DB", 0)

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       redisDB,
	})
	dict := customdict.New(client)

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
	lm, err := buildLanguageModel(modelName, train)
	if err != nil {
		log.Fatalf("init error: %v", err)
	}
	corrector, err := sc.NewSpellCorrector(channel, lm, dict)
	if err != nil {
		log.Fatalf("init error: %v", err)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/correct", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var req struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Text) == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid request"})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(correctText(corrector, req.Text))
	})

	mux.HandleFunc("/api/v1/custom-word", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var req struct {
			Word string `json:"word"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Word) == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid request"})
			return
		}
		if err := corrector.AddCustomWord(strings.ToLower(strings.TrimSpace(req.Word))); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	mux.HandleFunc("/api/v1/custom-word/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			http.NotFound(w, r)
			return
		}
		word := strings.TrimPrefix(r.URL.Path, "/api/v1/custom-word/")
		if word == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "word is required"})
			return
		}
		if err := corrector.RemoveCustomWord(strings.ToLower(word)); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	mux.HandleFunc("/api/v1/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("ws upgrade: %v", err)
			return
		}
		defer conn.Close()
		for {
			var req struct {
				Text string `json:"text"`
			}
			if err := conn.ReadJSON(&req); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("ws read: %v", err)
				}
				return
			}
			if err := conn.WriteJSON(correctText(corrector, req.Text)); err != nil {
				log.Printf("ws write: %v", err)
				return
			}
		}
	})

	addr := getenv("HTTP_ADDR", ":8080")
	log.Printf("listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, mux))
}

func correctText(corrector *sc.SpellCorrector, text string) sc.CorrectionResult {
	tokens := sc.Tokenize(text)
	corrected := corrector.Correct(tokens)
	res := sc.CorrectionResult{
		Original:  tokens,
		Corrected: corrected,
		Position:  -1,
	}
	for i := range tokens {
		if corrected[i] != tokens[i] {
			res.Position = i
			res.Changed = true
			break
		}
	}
	return res
}

func buildLanguageModel(name string, c *sc.Corpus) (sc.LanguageModel, error) {
	switch name {
	case "uniform":
		return sc.NewUniformModel(c)
	case "unigram":
		return sc.NewLaplaceUnigramModel(c)
	default:
		return sc.NewLaplaceBigramModel(c)
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
