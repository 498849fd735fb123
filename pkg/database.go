package evoked

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

// MontageEntry is one channel of the montage table, valid for a run range.
type MontageEntry struct {
	ChannelName string `db:"ChannelName"`
	ChannelType string `db:"ChannelType"`
	Position    int    `db:"Position"`
	Bad         bool   `db:"Bad"`
}

// GetMontageFromDB reads the channel montage valid for the given run,
// ordered by channel position.
func GetMontageFromDB(db *sqlx.DB, runNumber int, verbosity int, log Logger) ([]MontageEntry, error) {
	query := "SELECT ChannelName, ChannelType, Position, Bad FROM Montage WHERE MinRun <= %d and MaxRun >= %d ORDER BY Position"
	query = fmt.Sprintf(query, runNumber, runNumber)

	if verbosity > 0 {
		log.Info("Channel montage read from DB", "database")
	}
	if verbosity > 2 {
		message := fmt.Sprintf("Query: %s", query)
		log.Info(message, "database")
	}

	rows, err := db.Queryx(query)
	if err != nil {
		errMessage := fmt.Errorf("error querying database: %w", err)
		return nil, errMessage
	}

	var montage []MontageEntry
	for rows.Next() {
		result := MontageEntry{}
		err := rows.StructScan(&result)
		if err != nil {
			errMessage := fmt.Errorf("error scanning DB row: %w", err)
			return nil, errMessage
		}
		montage = append(montage, result)
	}
	return montage, nil
}

// ConditionRow is one condition-name to label-code assignment.
type ConditionRow struct {
	Name string `db:"Name"`
	Code int    `db:"Code"`
}

// GetConditionsFromDB builds the condition map valid for the given run.
func GetConditionsFromDB(db *sqlx.DB, runNumber int, verbosity int, log Logger) (*ConditionMap, error) {
	query := "SELECT Name, Code FROM Conditions WHERE MinRun <= %d and MaxRun >= %d ORDER BY Name"
	query = fmt.Sprintf(query, runNumber, runNumber)

	if verbosity > 0 {
		log.Info("Condition map read from DB", "database")
	}
	if verbosity > 2 {
		message := fmt.Sprintf("Query: %s", query)
		log.Info(message, "database")
	}

	rows, err := db.Queryx(query)
	if err != nil {
		errMessage := fmt.Errorf("error querying database: %w", err)
		return nil, errMessage
	}

	conditions := make(map[string][]int)
	for rows.Next() {
		result := ConditionRow{}
		err := rows.StructScan(&result)
		if err != nil {
			errMessage := fmt.Errorf("error scanning DB row: %w", err)
			return nil, errMessage
		}
		conditions[result.Name] = append(conditions[result.Name], result.Code)
	}
	return NewConditionMap(conditions)
}
