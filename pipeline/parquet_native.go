//go:build !js

package pipeline

import (
	parquetbuffer "github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"
	"go.uber.org/multierr"
)

type reportParquetRow struct {
	Source       string  `parquet:"name=source, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Index        int64   `parquet:"name=index, type=INT64"`
	Code         string  `parquet:"name=code, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	TrainingType string  `parquet:"name=training_type, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	DurationH    float64 `parquet:"name=duration_h, type=DOUBLE"`
	DistanceKM   float64 `parquet:"name=distance_km, type=DOUBLE"`
	SpeedKMH     float64 `parquet:"name=mean_speed_kmh, type=DOUBLE"`
	CaloriesKcal float64 `parquet:"name=calories_kcal, type=DOUBLE"`
}

func writeReportsParquet(path string, reports []ReportEntry) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}
	if err := writeParquetRows(fw, reports); err != nil {
		return multierr.Append(err, fw.Close())
	}
	return fw.Close()
}

func marshalReportsParquet(reports []ReportEntry) ([]byte, error) {
	fw := parquetbuffer.NewBufferFile()
	if err := writeParquetRows(fw, reports); err != nil {
		return nil, err
	}
	if err := fw.Close(); err != nil {
		return nil, err
	}
	return append([]byte(nil), fw.Bytes()...), nil
}

func writeParquetRows(fw source.ParquetFile, reports []ReportEntry) error {
	pw, err := writer.NewParquetWriter(fw, new(reportParquetRow), 4)
	if err != nil {
		return err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	for _, r := range reports {
		row := reportParquetRow{
			Source:       r.Source,
			Index:        int64(r.Index),
			Code:         string(r.Code),
			TrainingType: r.TrainingType,
			DurationH:    r.Duration,
			DistanceKM:   r.Distance,
			SpeedKMH:     r.Speed,
			CaloriesKcal: r.Calories,
		}
		if err := pw.Write(row); err != nil {
			return multierr.Append(err, pw.WriteStop())
		}
	}
	return pw.WriteStop()
}
