// Package ingest loads the local CSV exports the engine runs over: the
// company catalog, per-source candidate lists, the message stream, and the
// participant roster.
package ingest

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/commission-cli/internal/model"
)

// readRows reads all CSV rows from path, skipping an optional header row
// whose first cell matches firstHeader.
func readRows(path, firstHeader string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: parse %s", path)
	}
	if len(rows) > 0 && strings.EqualFold(strings.TrimSpace(rows[0][0]), firstHeader) {
		rows = rows[1:]
	}
	return rows, nil
}

// LoadCompanies reads the company catalog. One column: canonical_name.
// Order is preserved; blank rows are skipped.
func LoadCompanies(path string) ([]model.Company, error) {
	rows, err := readRows(path, "canonical_name")
	if err != nil {
		return nil, err
	}

	var companies []model.Company
	for _, row := range rows {
		name := strings.TrimSpace(row[0])
		if name == "" {
			continue
		}
		companies = append(companies, model.Company{CanonicalName: name})
	}
	return companies, nil
}

// LoadCandidates reads raw identifiers. Columns: source, raw. Rows with an
// unknown source kind are rejected; that is a malformed export, not bad
// match data.
func LoadCandidates(path string) ([]model.MatchCandidate, error) {
	rows, err := readRows(path, "source")
	if err != nil {
		return nil, err
	}

	known := make(map[model.SourceKind]bool, len(model.SourceKinds))
	for _, k := range model.SourceKinds {
		known[k] = true
	}

	var candidates []model.MatchCandidate
	for i, row := range rows {
		if len(row) < 2 {
			return nil, eris.Errorf("ingest: %s row %d: want source,raw", path, i+1)
		}
		kind := model.SourceKind(strings.TrimSpace(row[0]))
		raw := strings.TrimSpace(row[1])
		if !known[kind] {
			return nil, eris.Errorf("ingest: %s row %d: unknown source kind %q", path, i+1, kind)
		}
		if raw == "" {
			continue
		}
		candidates = append(candidates, model.MatchCandidate{Raw: raw, Source: kind})
	}
	return candidates, nil
}

// LoadMessages reads the tagged message stream. Columns: company,
// author_id, timestamp (RFC 3339), text. Export order is preserved so
// timestamp ties keep their insertion order.
func LoadMessages(path string) ([]model.Message, error) {
	rows, err := readRows(path, "company")
	if err != nil {
		return nil, err
	}

	var messages []model.Message
	for i, row := range rows {
		if len(row) < 4 {
			return nil, eris.Errorf("ingest: %s row %d: want company,author_id,timestamp,text", path, i+1)
		}
		ts, err := time.Parse(time.RFC3339, strings.TrimSpace(row[2]))
		if err != nil {
			return nil, eris.Wrapf(err, "ingest: %s row %d: timestamp", path, i+1)
		}
		messages = append(messages, model.Message{
			Company:   strings.TrimSpace(row[0]),
			AuthorID:  strings.TrimSpace(row[1]),
			Timestamp: ts,
			Text:      row[3],
		})
	}
	return messages, nil
}

// LoadRoster reads the authorized-participant table. Columns: user_id,
// authorized (true/false), weight_multiplier (optional; blank lets the
// roster default apply).
func LoadRoster(path string) ([]model.AuthorizedParticipant, error) {
	rows, err := readRows(path, "user_id")
	if err != nil {
		return nil, err
	}

	var participants []model.AuthorizedParticipant
	for i, row := range rows {
		if len(row) < 2 {
			return nil, eris.Errorf("ingest: %s row %d: want user_id,authorized[,weight_multiplier]", path, i+1)
		}
		authorized, err := strconv.ParseBool(strings.TrimSpace(row[1]))
		if err != nil {
			return nil, eris.Wrapf(err, "ingest: %s row %d: authorized", path, i+1)
		}
		p := model.AuthorizedParticipant{
			UserID:     strings.TrimSpace(row[0]),
			Authorized: authorized,
		}
		if len(row) > 2 && strings.TrimSpace(row[2]) != "" {
			w, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
			if err != nil {
				return nil, eris.Wrapf(err, "ingest: %s row %d: weight_multiplier", path, i+1)
			}
			p.WeightMultiplier = w
		}
		participants = append(participants, p)
	}
	return participants, nil
}

// GroupMessagesByCompany splits a message stream per company, preserving
// the stream's original ordering within each company.
func GroupMessagesByCompany(messages []model.Message) map[string][]model.Message {
	byCompany := make(map[string][]model.Message)
	for _, m := range messages {
		byCompany[m.Company] = append(byCompany[m.Company], m)
	}
	return byCompany
}
