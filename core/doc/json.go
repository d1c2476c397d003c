package doc

import (
	"encoding/json"
	"fmt"
)

// Node kind discriminators used by the snapshot JSON codec.
const (
	KindParagraph      = "paragraph"
	KindTable          = "table"
	KindRun            = "run"
	KindHyperlink      = "hyperlink"
	KindInsertion      = "insertion"
	KindDeletion       = "deletion"
	KindMoveFrom       = "move_from"
	KindMoveTo         = "move_to"
	KindMoveRangeStart = "move_range_start"
	KindMoveRangeEnd   = "move_range_end"
	KindText           = "text"
	KindTab            = "tab"
	KindBreak          = "break"
)

type kindEnvelope struct {
	Kind string `json:"kind"`
}

func peekKind(data []byte) (string, error) {
	var env kindEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", err
	}
	if env.Kind == "" {
		return "", fmt.Errorf("node missing kind discriminator")
	}
	return env.Kind, nil
}

// MarshalJSON adds the kind discriminator.
func (p *Paragraph) MarshalJSON() ([]byte, error) {
	type alias Paragraph
	return json.Marshal(struct {
		Kind string `json:"kind"`
		*alias
	}{KindParagraph, (*alias)(p)})
}

// UnmarshalJSON decodes the heterogeneous content list.
func (p *Paragraph) UnmarshalJSON(data []byte) error {
	var aux struct {
		StyleID         string                     `json:"style_id"`
		Formatting      Properties                 `json:"formatting"`
		PropertyChanges []*ParagraphPropertyChange `json:"property_changes"`
		Content         []json.RawMessage          `json:"content"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p.StyleID = aux.StyleID
	p.Formatting = aux.Formatting
	p.PropertyChanges = aux.PropertyChanges
	p.Content = nil
	for _, raw := range aux.Content {
		c, err := unmarshalParagraphContent(raw)
		if err != nil {
			return err
		}
		p.Content = append(p.Content, c)
	}
	return nil
}

// MarshalJSON adds the kind discriminator.
func (t *Table) MarshalJSON() ([]byte, error) {
	type alias Table
	return json.Marshal(struct {
		Kind string `json:"kind"`
		*alias
	}{KindTable, (*alias)(t)})
}

// MarshalJSON adds the kind discriminator.
func (r *Run) MarshalJSON() ([]byte, error) {
	type alias Run
	return json.Marshal(struct {
		Kind string `json:"kind"`
		*alias
	}{KindRun, (*alias)(r)})
}

// UnmarshalJSON decodes the heterogeneous inline content list.
func (r *Run) UnmarshalJSON(data []byte) error {
	var aux struct {
		Formatting      Properties           `json:"formatting"`
		PropertyChanges []*RunPropertyChange `json:"property_changes"`
		Content         []json.RawMessage    `json:"content"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.Formatting = aux.Formatting
	r.PropertyChanges = aux.PropertyChanges
	r.Content = nil
	for _, raw := range aux.Content {
		kind, err := peekKind(raw)
		if err != nil {
			return err
		}
		switch kind {
		case KindText:
			var t Text
			if err := json.Unmarshal(raw, &t); err != nil {
				return err
			}
			r.Content = append(r.Content, &t)
		case KindTab:
			r.Content = append(r.Content, &Tab{})
		case KindBreak:
			r.Content = append(r.Content, &Break{})
		default:
			return fmt.Errorf("unknown inline content kind %q", kind)
		}
	}
	return nil
}

// MarshalJSON adds the kind discriminator.
func (h *Hyperlink) MarshalJSON() ([]byte, error) {
	type alias Hyperlink
	return json.Marshal(struct {
		Kind string `json:"kind"`
		*alias
	}{KindHyperlink, (*alias)(h)})
}

// MarshalJSON adds the kind discriminator.
func (t *Text) MarshalJSON() ([]byte, error) {
	type alias Text
	return json.Marshal(struct {
		Kind string `json:"kind"`
		*alias
	}{KindText, (*alias)(t)})
}

// MarshalJSON adds the kind discriminator.
func (t *Tab) MarshalJSON() ([]byte, error) {
	return json.Marshal(kindEnvelope{KindTab})
}

// MarshalJSON adds the kind discriminator.
func (b *Break) MarshalJSON() ([]byte, error) {
	return json.Marshal(kindEnvelope{KindBreak})
}

// MarshalJSON adds the kind discriminator.
func (n *MoveRangeStart) MarshalJSON() ([]byte, error) {
	type alias MoveRangeStart
	return json.Marshal(struct {
		Kind string `json:"kind"`
		*alias
	}{KindMoveRangeStart, (*alias)(n)})
}

// MarshalJSON adds the kind discriminator.
func (n *MoveRangeEnd) MarshalJSON() ([]byte, error) {
	type alias MoveRangeEnd
	return json.Marshal(struct {
		Kind string `json:"kind"`
		*alias
	}{KindMoveRangeEnd, (*alias)(n)})
}

// trackedAux is the common wire shape of the four tracked-change wrappers.
type trackedAux struct {
	Info    TrackedChangeInfo `json:"info"`
	Content []json.RawMessage `json:"content"`
}

func (a *trackedAux) decode() (TrackedChangeInfo, []ParagraphContent, error) {
	var content []ParagraphContent
	for _, raw := range a.Content {
		c, err := unmarshalParagraphContent(raw)
		if err != nil {
			return TrackedChangeInfo{}, nil, err
		}
		content = append(content, c)
	}
	return a.Info, content, nil
}

func marshalTracked(kind string, info TrackedChangeInfo, content []ParagraphContent) ([]byte, error) {
	return json.Marshal(struct {
		Kind    string             `json:"kind"`
		Info    TrackedChangeInfo  `json:"info"`
		Content []ParagraphContent `json:"content"`
	}{kind, info, content})
}

// MarshalJSON adds the kind discriminator.
func (n *Insertion) MarshalJSON() ([]byte, error) {
	return marshalTracked(KindInsertion, n.Info, n.Content)
}

// UnmarshalJSON decodes the wrapped content list.
func (n *Insertion) UnmarshalJSON(data []byte) error {
	var aux trackedAux
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	var err error
	n.Info, n.Content, err = aux.decode()
	return err
}

// MarshalJSON adds the kind discriminator.
func (n *Deletion) MarshalJSON() ([]byte, error) {
	return marshalTracked(KindDeletion, n.Info, n.Content)
}

// UnmarshalJSON decodes the wrapped content list.
func (n *Deletion) UnmarshalJSON(data []byte) error {
	var aux trackedAux
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	var err error
	n.Info, n.Content, err = aux.decode()
	return err
}

// MarshalJSON adds the kind discriminator.
func (n *MoveFrom) MarshalJSON() ([]byte, error) {
	return marshalTracked(KindMoveFrom, n.Info, n.Content)
}

// UnmarshalJSON decodes the wrapped content list.
func (n *MoveFrom) UnmarshalJSON(data []byte) error {
	var aux trackedAux
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	var err error
	n.Info, n.Content, err = aux.decode()
	return err
}

// MarshalJSON adds the kind discriminator.
func (n *MoveTo) MarshalJSON() ([]byte, error) {
	return marshalTracked(KindMoveTo, n.Info, n.Content)
}

// UnmarshalJSON decodes the wrapped content list.
func (n *MoveTo) UnmarshalJSON(data []byte) error {
	var aux trackedAux
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	var err error
	n.Info, n.Content, err = aux.decode()
	return err
}

func unmarshalParagraphContent(data []byte) (ParagraphContent, error) {
	kind, err := peekKind(data)
	if err != nil {
		return nil, err
	}
	var node ParagraphContent
	switch kind {
	case KindRun:
		node = &Run{}
	case KindHyperlink:
		node = &Hyperlink{}
	case KindInsertion:
		node = &Insertion{}
	case KindDeletion:
		node = &Deletion{}
	case KindMoveFrom:
		node = &MoveFrom{}
	case KindMoveTo:
		node = &MoveTo{}
	case KindMoveRangeStart:
		node = &MoveRangeStart{}
	case KindMoveRangeEnd:
		node = &MoveRangeEnd{}
	default:
		return nil, fmt.Errorf("unknown paragraph content kind %q", kind)
	}
	if err := json.Unmarshal(data, node); err != nil {
		return nil, err
	}
	return node, nil
}

// UnmarshalBlock decodes one block node from its snapshot JSON form.
func UnmarshalBlock(data []byte) (Block, error) {
	kind, err := peekKind(data)
	if err != nil {
		return nil, err
	}
	switch kind {
	case KindParagraph:
		p := &Paragraph{}
		if err := json.Unmarshal(data, p); err != nil {
			return nil, err
		}
		return p, nil
	case KindTable:
		t := &Table{}
		if err := json.Unmarshal(data, t); err != nil {
			return nil, err
		}
		return t, nil
	}
	return nil, fmt.Errorf("unknown block kind %q", kind)
}

// UnmarshalJSON decodes the heterogeneous block list.
func (d *Document) UnmarshalJSON(data []byte) error {
	var aux struct {
		Title      string            `json:"title"`
		Author     string            `json:"author"`
		Language   string            `json:"language"`
		Attributes map[string]string `json:"attributes"`
		Blocks     []json.RawMessage `json:"blocks"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	d.Title = aux.Title
	d.Author = aux.Author
	d.Language = aux.Language
	d.Attributes = aux.Attributes
	d.Blocks = nil
	for _, raw := range aux.Blocks {
		b, err := UnmarshalBlock(raw)
		if err != nil {
			return err
		}
		d.Blocks = append(d.Blocks, b)
	}
	return nil
}

// UnmarshalJSON decodes the heterogeneous nested block list.
func (c *TableCell) UnmarshalJSON(data []byte) error {
	var aux struct {
		Blocks []json.RawMessage `json:"blocks"`
		Change *TableChange      `json:"change"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	c.Change = aux.Change
	c.Blocks = nil
	for _, raw := range aux.Blocks {
		b, err := UnmarshalBlock(raw)
		if err != nil {
			return err
		}
		c.Blocks = append(c.Blocks, b)
	}
	return nil
}
