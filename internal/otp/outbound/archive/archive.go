package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shandysiswandi/onboard/internal/otp/entity"
	"github.com/shandysiswandi/onboard/internal/pkg/instrument"
	"github.com/shandysiswandi/onboard/internal/pkg/storage"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const contentType = "application/x-ndjson"

// ErrBucketRequired is returned when archiving is enabled without a bucket.
var ErrBucketRequired = errors.New("archive: bucket is required")

type Archive struct {
	store  storage.Storage
	bucket string
	prefix string
	ins    instrument.Instrumentation
}

func NewArchive(store storage.Storage, bucket, prefix string, ins instrument.Instrumentation) *Archive {
	return &Archive{
		store:  store,
		bucket: strings.TrimSpace(bucket),
		prefix: strings.Trim(strings.TrimSpace(prefix), "/"),
		ins:    ins,
	}
}

// row is one archived record. The code hash never leaves the database.
type row struct {
	ID          int64      `json:"id"`
	Phone       string     `json:"phone"`
	Purpose     string     `json:"purpose"`
	Attempts    int16      `json:"attempts"`
	MaxAttempts int16      `json:"max_attempts"`
	Used        bool       `json:"used"`
	UsedAt      *time.Time `json:"used_at,omitempty"`
	DeliveryRef string     `json:"delivery_ref,omitempty"`
	ExpiresAt   time.Time  `json:"expires_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Archive writes records as one NDJSON object under
// <prefix>/YYYY/MM/DD/<unix>.ndjson and returns its key.
func (a *Archive) Archive(ctx context.Context, records []entity.Record, at time.Time) (_ string, _ int64, err error) {
	ctx, span := a.ins.Tracer("otp.outbound.archive").Start(ctx, "Archive")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if a.bucket == "" {
		return "", 0, ErrBucketRequired
	}
	if len(records) == 0 {
		return "", 0, nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, r := range records {
		if err := enc.Encode(row{
			ID:          r.ID,
			Phone:       r.Phone,
			Purpose:     r.Purpose.String(),
			Attempts:    r.Attempts,
			MaxAttempts: r.MaxAttempts,
			Used:        r.Used,
			UsedAt:      r.UsedAt,
			DeliveryRef: r.DeliveryRef,
			ExpiresAt:   r.ExpiresAt,
			CreatedAt:   r.CreatedAt,
		}); err != nil {
			return "", 0, err
		}
	}

	key := a.key(at)
	span.SetAttributes(attribute.String("archive.key", key), attribute.Int("archive.records", len(records)))

	if _, err := a.store.Put(ctx, storage.Object{
		Bucket:      a.bucket,
		Key:         key,
		Body:        buf.Bytes(),
		ContentType: contentType,
		Metadata:    map[string]string{"records": strconv.Itoa(len(records))},
	}); err != nil {
		return "", 0, fmt.Errorf("archive: put %s: %w", key, err)
	}

	return key, int64(len(records)), nil
}

func (a *Archive) key(at time.Time) string {
	at = at.UTC()
	name := fmt.Sprintf("%04d/%02d/%02d/%d.ndjson", at.Year(), at.Month(), at.Day(), at.Unix())
	if a.prefix == "" {
		return name
	}
	return a.prefix + "/" + name
}
