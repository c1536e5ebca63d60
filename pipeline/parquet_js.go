//go:build js

package pipeline

import "errors"

var errParquetUnavailable = errors.New("parquet output is not available in this build")

func writeReportsParquet(string, []ReportEntry) error {
	return errParquetUnavailable
}

func marshalReportsParquet([]ReportEntry) ([]byte, error) {
	return nil, errParquetUnavailable
}
