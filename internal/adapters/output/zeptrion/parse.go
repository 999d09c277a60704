package zeptrion

import (
	"encoding/xml"
	"net/url"
	"strconv"
	"strings"

	"github.com/CR1N993R/homeassistant-feller-zeptrion/internal/domain/model"
)

// The hub keys child elements by channel ("ch3"), so documents are decoded
// through xml:",any" and matched on the element name. Absent elements fall
// back to defaults; the XML shape varies across firmware revisions and a
// parse problem must degrade, never fail.

type channelDocument struct {
	Channels []channelElement `xml:",any"`
}

type channelElement struct {
	XMLName  xml.Name
	Name     string `xml:"name"`
	Group    string `xml:"group"`
	Category string `xml:"cat"`
	Value    string `xml:"val"`
}

// parseChannelDescriptions maps a chdes document to channels keyed by element
// tag. Channels the hub reports as disconnected (category -1) are dropped.
// Malformed XML yields an empty map.
func parseChannelDescriptions(data string, overrides map[string]string) map[string]model.Channel {
	channels := make(map[string]model.Channel)
	var doc channelDocument
	if err := xml.Unmarshal([]byte(data), &doc); err != nil {
		return channels
	}

	for _, el := range doc.Channels {
		id := strings.TrimPrefix(el.XMLName.Local, "ch")

		name := strings.TrimSpace(el.Name)
		if override, ok := overrides[model.OverrideKey(id)]; ok {
			name = override
		} else if name == "" {
			name = "Unnamed"
		}

		group := strings.TrimSpace(el.Group)
		if group == "" {
			group = "Ungrouped"
		}

		category := model.CategoryUnknown
		if v, err := strconv.Atoi(strings.TrimSpace(el.Category)); err == nil {
			category = model.DeviceCategory(v)
		}
		if category == model.CategoryUnknown {
			continue
		}

		channels[el.XMLName.Local] = model.Channel{
			ID:       id,
			Name:     name,
			Group:    group,
			Category: category,
		}
	}
	return channels
}

// parseChannelState extracts the trimmed <val> text for one channel from a
// chscan document. Missing channel, missing value or malformed XML all
// report not-found.
func parseChannelState(channel, data string) (string, bool) {
	var doc channelDocument
	if err := xml.Unmarshal([]byte(data), &doc); err != nil {
		return "", false
	}
	for _, el := range doc.Channels {
		if el.XMLName.Local != model.ChannelKey(channel) {
			continue
		}
		value := strings.TrimSpace(el.Value)
		if value == "" {
			return "", false
		}
		return value, true
	}
	return "", false
}

type networkDocument struct {
	MAC string `xml:"mac"`
}

// parseNetworkInfo returns nil on malformed XML.
func parseNetworkInfo(data string) *model.NetworkInfo {
	var doc networkDocument
	if err := xml.Unmarshal([]byte(data), &doc); err != nil {
		return nil
	}
	return &model.NetworkInfo{MAC: strings.TrimSpace(doc.MAC)}
}

type deviceDocument struct {
	Hardware string `xml:"hw"`
	Serial   string `xml:"sn"`
	Type     string `xml:"type"`
	Software string `xml:"sw"`
}

// parseDeviceInfo returns nil on malformed XML.
func parseDeviceInfo(data string) *model.DeviceInfo {
	var doc deviceDocument
	if err := xml.Unmarshal([]byte(data), &doc); err != nil {
		return nil
	}
	return &model.DeviceInfo{
		HardwareVersion: strings.TrimSpace(doc.Hardware),
		SerialNumber:    strings.TrimSpace(doc.Serial),
		Type:            strings.TrimSpace(doc.Type),
		SoftwareVersion: strings.TrimSpace(doc.Software),
	}
}

// encodeCommand builds the chctrl form body: exactly one key, cmd{channel}.
func encodeCommand(channel, command string) url.Values {
	return url.Values{"cmd" + channel: {command}}
}
