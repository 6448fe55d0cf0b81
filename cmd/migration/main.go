package main

import (
	"bufio"
	"flag"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"gitlab.com/dirk.krummacker/contact-api/internal/config"
	"gitlab.com/dirk.krummacker/contact-api/internal/store"
)

// Usage example on the command line:
// > DB_HOST=localhost DB_USER=dirk DB_PASSWORD=bullo92 go run main.go -file=../../scripts/database.sql
func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("could not load configuration")
	}
	db, err := store.OpenDatabase(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not open database")
	}
	defer db.Close()

	filePtr := flag.String("file", "database.sql", "the sql file to execute")
	flag.Parse()

	readFile, err := os.Open(*filePtr) // nosemgrep
	if err != nil {
		logger.Fatal().Err(err).Str("file", *filePtr).Msg("could not open sql file")
	}
	defer readFile.Close()

	fileScanner := bufio.NewScanner(readFile)
	fileScanner.Split(bufio.ScanLines)
	builder := strings.Builder{}
	for fileScanner.Scan() {
		line := fileScanner.Text()
		builder.WriteString(line)
		builder.WriteString(" ")
		if strings.Contains(line, ";") {
			sql := builder.String()
			db.MustExec(sql)
			logger.Info().Str("statement", strings.TrimSpace(sql)).Msg("executed")
			builder = strings.Builder{}
		}
	}
}
