// Package convertor maps domain value objects to and from their column
// representation.
//
// The birthday mapping is exposed twice: as plain functions for code that
// scans rows itself, and as a gorm serializer so `serializer:birthday`
// fields are converted on every ORM read and write.
package convertor

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/deppfellow/querylab/internal/entity"
	"gorm.io/gorm/schema"
)

// BirthdaySerializerName is the tag value used on entity fields.
const BirthdaySerializerName = "birthday"

// ToDatabaseColumn converts a Birthday into the value stored in a date column.
// nil maps to nil.
func ToDatabaseColumn(b *entity.Birthday) *time.Time {
	if b == nil {
		return nil
	}
	t := b.Time()
	return &t
}

// ToEntityAttribute converts a date column value into a Birthday.
// nil maps to nil.
func ToEntityAttribute(t *time.Time) *entity.Birthday {
	if t == nil {
		return nil
	}
	b := entity.BirthdayOf(*t)
	return &b
}

// BirthdaySerializer plugs the birthday mapping into gorm.
type BirthdaySerializer struct{}

// Scan implements schema.SerializerInterface.
func (BirthdaySerializer) Scan(ctx context.Context, field *schema.Field, dst reflect.Value, dbValue interface{}) error {
	var column *time.Time

	switch v := dbValue.(type) {
	case nil:
	case time.Time:
		column = &v
	case *time.Time:
		column = v
	case string:
		b, err := entity.ParseBirthday(v)
		if err != nil {
			return err
		}
		column = ToDatabaseColumn(&b)
	case []byte:
		b, err := entity.ParseBirthday(string(v))
		if err != nil {
			return err
		}
		column = ToDatabaseColumn(&b)
	default:
		return fmt.Errorf("unsupported birthday column value %T", dbValue)
	}

	field.ReflectValueOf(ctx, dst).Set(reflect.ValueOf(ToEntityAttribute(column)))
	return nil
}

// Value implements schema.SerializerValuerInterface.
func (BirthdaySerializer) Value(ctx context.Context, field *schema.Field, dst reflect.Value, fieldValue interface{}) (interface{}, error) {
	var b *entity.Birthday

	switch v := fieldValue.(type) {
	case nil:
	case *entity.Birthday:
		b = v
	case entity.Birthday:
		b = &v
	default:
		return nil, fmt.Errorf("unsupported birthday field value %T", fieldValue)
	}

	column := ToDatabaseColumn(b)
	if column == nil {
		return nil, nil
	}
	return *column, nil
}

var registerOnce sync.Once

// RegisterSerializers makes the converters available to gorm schemas.
// Safe to call more than once.
func RegisterSerializers() {
	registerOnce.Do(func() {
		schema.RegisterSerializer(BirthdaySerializerName, BirthdaySerializer{})
	})
}
