package mada

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	sqlx "github.com/jmoiron/sqlx" //make alias name the package to sqlx
)

func ConnectToDatabase(user string, pass string, host string, dbname string) (*sqlx.DB, error) {
	port := "3306"
	dbURI := fmt.Sprintf("%s:%s@(%s:%s)/%s?parseTime=true", user, pass, host, port, dbname)
	db, err := sqlx.Connect("mysql", dbURI)
	return db, err
}

// GainEntry is one row of the GainCalibration table: the averages of one channel of
// one board in a run. Statistics that could not be computed are NULL.
type GainEntry struct {
	Run          string   `db:"Run"`
	Board        string   `db:"Board"`
	Channel      int      `db:"Channel"`
	PeakToPeak   *float64 `db:"PeakToPeak"`
	MinAmplitude *float64 `db:"MinAmplitude"`
	MaxAmplitude *float64 `db:"MaxAmplitude"`
	NEvents      int      `db:"NEvents"`
}

const insertGainQuery = `INSERT INTO GainCalibration (Run, Board, Channel, PeakToPeak, MinAmplitude, MaxAmplitude, NEvents)
VALUES (:Run, :Board, :Channel, :PeakToPeak, :MinAmplitude, :MaxAmplitude, :NEvents)`

// GainEntries flattens board averages into one row per channel. Boards whose file
// list was empty produce no rows.
func GainEntries(run string, results []BoardAmplitudeAverage) []GainEntry {
	var entries []GainEntry
	for _, result := range results {
		if result.Files == 0 {
			continue
		}
		for ch := 0; ch < NChannels; ch++ {
			entry := GainEntry{
				Run:     run,
				Board:   result.Board,
				Channel: ch,
				NEvents: max(result.PeakToPeakEvents, result.AmplitudeEvents),
			}
			if result.PeakToPeakEvents > 0 {
				entry.PeakToPeak = floatPtr(result.PeakToPeak[ch])
			}
			if result.AmplitudeEvents > 0 {
				entry.MinAmplitude = floatPtr(result.Min.Value[ch])
				entry.MaxAmplitude = floatPtr(result.Max.Value[ch])
			}
			entries = append(entries, entry)
		}
	}
	return entries
}

func floatPtr(v float64) *float64 {
	return &v
}

// SaveGainEntries stores entries in a single transaction.
func SaveGainEntries(db *sqlx.DB, entries []GainEntry, configuration Configuration) error {
	if len(entries) == 0 {
		return nil
	}
	if configuration.Verbosity > 0 {
		logger.Info(fmt.Sprintf("Writing %d gain entries to database", len(entries)), "database")
	}
	if configuration.Verbosity > 2 {
		logger.Info(fmt.Sprintf("Query: %s", insertGainQuery), "database")
	}

	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	for _, entry := range entries {
		if _, err := tx.NamedExec(insertGainQuery, entry); err != nil {
			tx.Rollback()
			return fmt.Errorf("error inserting gain of %s channel %d: %w", entry.Board, entry.Channel, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing gain entries: %w", err)
	}
	return nil
}

func GetGainEntries(db *sqlx.DB, run string) ([]GainEntry, error) {
	query := "SELECT Run, Board, Channel, PeakToPeak, MinAmplitude, MaxAmplitude, NEvents FROM GainCalibration WHERE Run = ? ORDER BY Board, Channel"
	var entries []GainEntry
	if err := db.Select(&entries, query, run); err != nil {
		return nil, fmt.Errorf("error querying database: %w", err)
	}
	return entries, nil
}
