package service

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/CR1N993R/homeassistant-feller-zeptrion/internal/domain/model"
)

func testLight(mockHub *MockHub, notifier *recordingNotifier) *Light {
	channel := model.Channel{ID: "1", Name: "Kitchen", Group: "Ground Floor", Category: model.CategoryLight}
	return newLight(mockHub, "ch1", channel, "00:11:22:33:44:55", notifier, slog.Default())
}

func TestLight_TurnOn(t *testing.T) {
	mockHub := new(MockHub)
	notifier := &recordingNotifier{}
	light := testLight(mockHub, notifier)

	mockHub.On("TurnLightOn", mock.Anything, "1").Return(nil)
	mockHub.On("LightState", mock.Anything, "1").Return(true)

	light.TurnOn(context.Background())

	assert.True(t, light.IsOn())
	assert.Equal(t, []string{"Kitchen_ch1_00:11:22:33:44:55"}, notifier.notified())
	mockHub.AssertExpectations(t)
}

func TestLight_TurnOff(t *testing.T) {
	mockHub := new(MockHub)
	light := testLight(mockHub, &recordingNotifier{})

	mockHub.On("TurnLightOff", mock.Anything, "1").Return(nil)
	mockHub.On("LightState", mock.Anything, "1").Return(false)

	light.TurnOff(context.Background())

	assert.False(t, light.IsOn())
	mockHub.AssertExpectations(t)
}

func TestLight_FailedSendStillRefreshes(t *testing.T) {
	mockHub := new(MockHub)
	notifier := &recordingNotifier{}
	light := testLight(mockHub, notifier)

	mockHub.On("TurnLightOn", mock.Anything, "1").Return(fmt.Errorf("timeout"))
	mockHub.On("LightState", mock.Anything, "1").Return(false)

	light.TurnOn(context.Background())

	// The state is whatever the hub scan says, not what we asked for
	assert.False(t, light.IsOn())
	assert.Len(t, notifier.notified(), 1)
}

func TestLight_Refresh(t *testing.T) {
	mockHub := new(MockHub)
	light := testLight(mockHub, &recordingNotifier{})

	mockHub.On("LightState", mock.Anything, "1").Return(true).Once()
	light.Refresh(context.Background())
	assert.True(t, light.IsOn())

	mockHub.On("LightState", mock.Anything, "1").Return(false).Once()
	light.Refresh(context.Background())
	assert.False(t, light.IsOn())
}
