package utils

import (
	"log"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"
)

// TimeNowKST returns the current time in Korea Standard Time, the zone the
// message boards and the exchange report in.
func TimeNowKST() time.Time {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		log.Fatal("Failed to load location", err)
	}
	return time.Now().In(loc)
}

// DatedPath inserts a timestamp before the extension of path, so scheduled
// runs do not overwrite each other's reports.
func DatedPath(path string, now time.Time) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_" + now.Format("20060102_150405") + ext
}
