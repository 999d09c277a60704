package zeptrion

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/CR1N993R/homeassistant-feller-zeptrion/internal/domain/model"
)

const chdesSample = `<zrap>
	<ch1><name>Kitchen</name><group>Ground Floor</group><cat>1</cat></ch1>
	<ch4><name> Terrace Blind </name><group>Ground Floor</group><cat>5</cat></ch4>
	<ch7><name>Spare</name><group>Attic</group><cat>-1</cat></ch7>
	<ch8><name>Mystery</name><cat>9</cat></ch8>
</zrap>`

func TestParseChannelDescriptions(t *testing.T) {
	channels := parseChannelDescriptions(chdesSample, nil)

	assert.Len(t, channels, 3)
	assert.Equal(t, model.Channel{ID: "1", Name: "Kitchen", Group: "Ground Floor", Category: model.CategoryLight}, channels["ch1"])
	assert.Equal(t, "Terrace Blind", channels["ch4"].Name)
	assert.Equal(t, model.CategoryBlind, channels["ch4"].Category)

	// Disconnected channels never surface
	assert.NotContains(t, channels, "ch7")
	for _, ch := range channels {
		assert.NotEqual(t, model.CategoryUnknown, ch.Category)
	}

	// Unrecognized categories pass through raw
	assert.Equal(t, model.DeviceCategory(9), channels["ch8"].Category)
	assert.Equal(t, "other(9)", channels["ch8"].Category.String())
	assert.Equal(t, "Ungrouped", channels["ch8"].Group)
}

func TestParseChannelDescriptions_Overrides(t *testing.T) {
	overrides := map[string]string{
		"Channel 1 Name": "Dining Table",
	}
	channels := parseChannelDescriptions(chdesSample, overrides)

	assert.Equal(t, "Dining Table", channels["ch1"].Name)
	// Channels without an override keep the hub-reported name
	assert.Equal(t, "Terrace Blind", channels["ch4"].Name)
}

func TestParseChannelDescriptions_Defaults(t *testing.T) {
	channels := parseChannelDescriptions(`<zrap><ch2><cat>1</cat></ch2></zrap>`, nil)

	assert.Len(t, channels, 1)
	assert.Equal(t, "Unnamed", channels["ch2"].Name)
	assert.Equal(t, "Ungrouped", channels["ch2"].Group)
}

func TestParseChannelDescriptions_MissingCategory(t *testing.T) {
	// No <cat> defaults to the unknown sentinel, so the channel is dropped
	channels := parseChannelDescriptions(`<zrap><ch2><name>Ghost</name></ch2></zrap>`, nil)
	assert.Empty(t, channels)

	// Same for a category that is not an integer
	channels = parseChannelDescriptions(`<zrap><ch2><cat>abc</cat></ch2></zrap>`, nil)
	assert.Empty(t, channels)
}

func TestParseChannelDescriptions_MalformedXML(t *testing.T) {
	channels := parseChannelDescriptions(`<zrap><ch1><name>Kitchen`, nil)
	assert.NotNil(t, channels)
	assert.Empty(t, channels)
}

func TestParseChannelState(t *testing.T) {
	data := `<zrap><ch3><val>128</val></ch3></zrap>`

	value, ok := parseChannelState("3", data)
	assert.True(t, ok)
	assert.Equal(t, "128", value)

	_, ok = parseChannelState("9", data)
	assert.False(t, ok)
}

func TestParseChannelState_Trimmed(t *testing.T) {
	value, ok := parseChannelState("3", "<zrap><ch3><val>\n\t0 </val></ch3></zrap>")
	assert.True(t, ok)
	assert.Equal(t, "0", value)
}

func TestParseChannelState_Degrades(t *testing.T) {
	_, ok := parseChannelState("3", `<zrap><ch3></ch3></zrap>`)
	assert.False(t, ok)

	_, ok = parseChannelState("3", `<zrap><ch3><val>`)
	assert.False(t, ok)
}

func TestParseNetworkInfo(t *testing.T) {
	info := parseNetworkInfo(`<zrap><mac>00:11:22:33:44:55</mac></zrap>`)
	assert.NotNil(t, info)
	assert.Equal(t, "00:11:22:33:44:55", info.MAC)

	assert.Nil(t, parseNetworkInfo(`<zrap><mac>`))
}

func TestParseDeviceInfo(t *testing.T) {
	data := `<zrap><hw>2</hw><sn>Z123456</sn><type>Zapp</type><sw>1.3.0</sw></zrap>`
	info := parseDeviceInfo(data)

	assert.NotNil(t, info)
	assert.Equal(t, "2", info.HardwareVersion)
	assert.Equal(t, "Z123456", info.SerialNumber)
	assert.Equal(t, "Zapp", info.Type)
	assert.Equal(t, "1.3.0", info.SoftwareVersion)

	assert.Nil(t, parseDeviceInfo(`<zrap><hw>`))
}

func TestEncodeCommand(t *testing.T) {
	values := encodeCommand("3", CommandOn)
	assert.Equal(t, url.Values{"cmd3": {"on"}}, values)
	assert.Equal(t, "cmd3=on", values.Encode())
}
