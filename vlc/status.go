package vlc

import "encoding/xml"

const metaCategoryName = "meta"

// Status is one decoded poll of VLC's status document (`<root>` element).
// Every scalar is kept as a string: VLC omits fields freely depending on the
// playlist state, and a missing or non-numeric element must never fail the
// decode. Conversion to typed values happens in Normalize.
type Status struct {
	XMLName     xml.Name    `xml:"root"`
	State       string      `xml:"state"`
	Time        string      `xml:"time"`
	Position    string      `xml:"position"`
	Length      string      `xml:"length"`
	Volume      string      `xml:"volume"`
	Information Information `xml:"information"`
}

type Information struct {
	Categories []Category `xml:"category"`
}

type Category struct {
	Name string `xml:"name,attr"`
	Info []Info `xml:"info"`
}

type Info struct {
	Name string `xml:"name,attr"`
	Text string `xml:",chardata"`
}

// Empty reports whether the status carries no data at all, which is what a
// failed fetch degrades to.
func (s Status) Empty() bool {
	return s.State == "" && s.Volume == "" && s.Length == "" &&
		s.Time == "" && s.Position == "" && len(s.Information.Categories) == 0
}

// Metadata is the media metadata set extracted from the "meta" category.
type Metadata struct {
	entries []Info
}

// Meta looks up the category named "meta" in the information block. The
// boolean distinguishes "no meta category present" from a category that is
// merely empty.
func (s Status) Meta() (Metadata, bool) {
	for _, category := range s.Information.Categories {
		if category.Name == metaCategoryName {
			return Metadata{entries: category.Info}, true
		}
	}
	return Metadata{}, false
}

// Get returns the value of the named metadata entry.
func (m Metadata) Get(name string) (string, bool) {
	for _, entry := range m.entries {
		if entry.Name == name {
			return entry.Text, true
		}
	}
	return "", false
}

func decodeStatus(data []byte) (Status, error) {
	var status Status
	if unmarshalErr := xml.Unmarshal(data, &status); unmarshalErr != nil {
		return Status{}, unmarshalErr
	}
	return status, nil
}
