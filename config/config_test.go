package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetString(t *testing.T) {
	t.Setenv("ZOMATIFY_TEST_STR", "value")
	assert.Equal(t, "value", GetString("ZOMATIFY_TEST_STR", "fallback"))
	assert.Equal(t, "fallback", GetString("ZOMATIFY_TEST_MISSING", "fallback"))

	t.Setenv("ZOMATIFY_TEST_EMPTY", "")
	assert.Equal(t, "fallback", GetString("ZOMATIFY_TEST_EMPTY", "fallback"))
}

func TestGetInt(t *testing.T) {
	t.Setenv("ZOMATIFY_TEST_INT", "42")
	t.Setenv("ZOMATIFY_TEST_BAD_INT", "forty-two")
	assert.Equal(t, 42, GetInt("ZOMATIFY_TEST_INT", 1))
	assert.Equal(t, 1, GetInt("ZOMATIFY_TEST_BAD_INT", 1))
	assert.Equal(t, 7, GetInt("ZOMATIFY_TEST_MISSING", 7))
}

func TestGetDuration(t *testing.T) {
	t.Setenv("ZOMATIFY_TEST_DUR", "300ms")
	assert.Equal(t, 300*time.Millisecond, GetDuration("ZOMATIFY_TEST_DUR", time.Second))
	assert.Equal(t, time.Second, GetDuration("ZOMATIFY_TEST_MISSING", time.Second))
}

func TestNewKafkaWriter_NoBroker(t *testing.T) {
	t.Setenv("KAFKA_BROKER", "")
	assert.Nil(t, NewKafkaWriter("payments"))
}

func TestNewKafkaWriter_WithBroker(t *testing.T) {
	t.Setenv("KAFKA_BROKER", "kafka:9092")
	w := NewKafkaWriter("payments")
	if assert.NotNil(t, w) {
		assert.Equal(t, "payments", w.Topic)
	}
}

func TestPostgresDSN(t *testing.T) {
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "orders")
	t.Setenv("DB_PASSWORD", "secret")
	dsn := PostgresDSN()
	assert.Contains(t, dsn, "host=db")
	assert.Contains(t, dsn, "dbname=orders")
	assert.Contains(t, dsn, "sslmode=disable")
}
