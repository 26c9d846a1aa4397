package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/consulting-marketplace/internal/domain/entity"
	"github.com/ignatzorin/consulting-marketplace/internal/infrastructure/memory"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("0123456789abcdef0123456789abcdef", time.Hour)
	user := uuid.New()

	token, err := m.GenerateAccess(user, "buyer")
	require.NoError(t, err)

	id, role, err := m.ParseAccess(token)
	require.NoError(t, err)
	assert.Equal(t, user, id)
	assert.Equal(t, "buyer", role)
}

func TestTokenManager_RejectsForeignSecret(t *testing.T) {
	issuer := NewTokenManager("issuer-secret-issuer-secret-issuer", time.Hour)
	verifier := NewTokenManager("another-secret-another-secret-xx", time.Hour)

	token, err := issuer.GenerateAccess(uuid.New(), "consultant")
	require.NoError(t, err)

	_, _, err = verifier.ParseAccess(token)
	assert.Error(t, err)
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	m := NewTokenManager("0123456789abcdef0123456789abcdef", -time.Minute)

	token, err := m.GenerateAccess(uuid.New(), "buyer")
	require.NoError(t, err)

	_, _, err = m.ParseAccess(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestNotificationService_StoresEventPayload(t *testing.T) {
	repo := memory.NewNotificationRepository()
	svc := NewNotificationService(repo)
	user := uuid.New()

	err := svc.Notify(context.Background(), user, entity.EventPaymentReleased, map[string]interface{}{"amount": 5000})
	require.NoError(t, err)

	list, err := svc.List(context.Background(), user, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, entity.EventPaymentReleased, list[0].Event)

	var payload struct {
		Event string                 `json:"event"`
		Data  map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(list[0].Payload, &payload))
	assert.Equal(t, entity.EventPaymentReleased, payload.Event)
	assert.EqualValues(t, 5000, payload.Data["amount"])
}
