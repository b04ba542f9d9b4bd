package ingestion

import (
	"bufio"
	"encoding/json"
	"io"
	"log/slog"
	"strings"

	"github.com/poiesic/scholarseek/core"
)

// maxLineBytes bounds a single corpus line. Researcher profiles with long
// biographies fit comfortably under this.
const maxLineBytes = 1 << 20

// decodeRecords reads researcher records from a JSON lines stream.
// Blank lines are ignored. Malformed lines and records without a profile
// URL are logged and skipped; the skipped count is returned alongside the
// decoded records.
func decodeRecords(r io.Reader, logger *slog.Logger) ([]*core.ResearcherRecord, int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	var records []*core.ResearcherRecord
	skipped := 0
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		record := &core.ResearcherRecord{}
		if err := json.Unmarshal([]byte(line), record); err != nil {
			logger.Warn("skipping malformed corpus line", "line", lineNo, "err", err)
			skipped++
			continue
		}
		if record.ProfileURL == "" {
			logger.Warn("skipping record without profile URL", "line", lineNo)
			skipped++
			continue
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, err
	}

	return records, skipped, nil
}
