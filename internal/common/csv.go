// Package common provides the shared CSV layer used by the ledger exports.
package common

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// Global CSV delimiter - can be configured via centralized config or environment variable
var Delimiter rune = ','

func init() {
	if val := os.Getenv("CSV_DELIMITER"); val != "" {
		// Use first rune only
		SetDelimiter([]rune(val)[0])
	}
}

// SetDelimiter allows setting the delimiter for CSV output
func SetDelimiter(delim rune) {
	Delimiter = delim
	gocsv.TagSeparator = fmt.Sprintf("%c", delim)
}

// SetLogger allows setting a configured logger
func SetLogger(logger *logrus.Logger) {
	if logger == nil {
		return // Don't change the logger if nil is passed
	}
	log = logger
}

// ReadCSVFile reads CSV data into a slice of structs using gocsv.
// TRow is the struct type that maps to the CSV columns.
func ReadCSVFile[TRow any](filePath string) ([]TRow, error) {
	log.WithField("file", filePath).Info("Reading CSV file")

	file, err := os.Open(filePath)
	if err != nil {
		log.WithError(err).Error("Failed to open CSV file")
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	var rows []TRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		log.WithError(err).Error("Failed to parse CSV file")
		return nil, fmt.Errorf("error parsing CSV file: %w", err)
	}

	log.WithField("count", len(rows)).Info("Successfully read CSV data")
	return rows, nil
}

// WriteCSVFile writes a slice of structs to a CSV file using gocsv,
// creating the target directory when missing.
func WriteCSVFile[TRow any](rows []TRow, filePath string) error {
	if rows == nil {
		return fmt.Errorf("cannot write nil rows to CSV")
	}

	log.WithFields(logrus.Fields{
		"file":  filePath,
		"count": len(rows),
	}).Info("Writing CSV file")

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		log.WithError(err).Error("Failed to create directory")
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		log.WithError(err).Error("Failed to create CSV file")
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	csvWriter := csv.NewWriter(file)
	csvWriter.Comma = Delimiter

	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		log.WithError(err).Error("Failed to marshal rows to CSV")
		return fmt.Errorf("error writing CSV data: %w", err)
	}

	log.WithFields(logrus.Fields{
		"file":  filePath,
		"count": len(rows),
	}).Info("Successfully wrote CSV file")

	return nil
}
