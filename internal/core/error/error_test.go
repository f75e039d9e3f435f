package errx

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapRedis(t *testing.T) {
	assert.Nil(t, WrapRedis(nil))

	err := WrapRedis(redis.Nil)
	assert.Equal(t, http.StatusNotFound, StatusOf(err))
	assert.ErrorIs(t, err, redis.Nil)

	err = WrapRedis(errors.New("conn refused"))
	assert.Equal(t, http.StatusBadGateway, StatusOf(err))
	assert.Contains(t, err.Error(), RedisErrorMessage)
}

func TestWrapKeepsExistingStatus(t *testing.T) {
	inner := WrapRedis(errors.New("timeout"))
	err := WrapStore(inner)
	assert.Equal(t, http.StatusBadGateway, StatusOf(err))

	var app *AppError
	require.ErrorAs(t, err, &app)
	assert.Equal(t, RedisErrorMessage, app.Message)
}

func TestWrapTool(t *testing.T) {
	err := WrapTool(context.DeadlineExceeded)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, http.StatusBadGateway, StatusOf(err))
	assert.Nil(t, WrapTool(nil))
}

func TestWrapValidationAndStatusOf(t *testing.T) {
	sentinel := errors.New("bad field")
	err := WrapValidation(sentinel)
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, http.StatusInternalServerError, StatusOf(err))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("plain")))
}
