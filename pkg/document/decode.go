package document

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/canopy/pkg/diagram"
	errs "github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/palette"
	"github.com/matzehuels/canopy/pkg/viewport"
)

// validate is a singleton validator instance
var validate = validator.New()

// envelope mirrors Document but keeps node records raw so one bad record
// does not fail the whole payload.
type envelope struct {
	Version          string            `json:"version"`
	Title            string            `json:"title"`
	Nodes            []json.RawMessage `json:"nodes"`
	ViewOffset       *Offset           `json:"viewOffset"`
	Zoom             *float64          `json:"zoom"`
	GenerationColors map[string]string `json:"generationColors"`
	PaintOrder       []string          `json:"paintOrder"`
}

// rawRecord is a NodeRecord as read from untrusted input.
type rawRecord struct {
	ID          string            `json:"id"`
	X           *float64          `json:"x" validate:"required"`
	Y           *float64          `json:"y" validate:"required"`
	Text        string            `json:"text" validate:"required"`
	Shape       string            `json:"shape"`
	Color       string            `json:"color"`
	FontSize    float64           `json:"fontSize" validate:"gte=0"`
	FontWeight  string            `json:"fontWeight"`
	Icon        *string           `json:"icon"`
	Collapsed   bool              `json:"collapsed"`
	Metadata    map[string]string `json:"metadata"`
	Children    []json.RawMessage `json:"children"`
	Width       *float64          `json:"width" validate:"omitempty,gt=0"`
	Height      *float64          `json:"height" validate:"omitempty,gt=0"`
	TextColor   string            `json:"textColor"`
	BorderStyle string            `json:"borderStyle"`
	BorderColor string            `json:"borderColor"`
	BorderWidth *float64          `json:"borderWidth" validate:"omitempty,gte=0"`
	Notes       string            `json:"notes"`
	Tags        []string          `json:"tags"`
	Links       []string          `json:"links"`
	Attachments []string          `json:"attachments"`
}

// Warning describes a record that was skipped or altered during decoding.
type Warning struct {
	Path string // JSON path of the record, e.g. nodes[0].children[2]
	ID   string // record id when known
	Err  error
}

func (w Warning) String() string {
	if w.ID != "" {
		return fmt.Sprintf("%s (%s): %v", w.Path, w.ID, w.Err)
	}
	return fmt.Sprintf("%s: %v", w.Path, w.Err)
}

// Result is a decoded document.
type Result struct {
	State
	Version  string
	Warnings []Warning
	Skipped  int // records dropped entirely
}

// Decoder reads documents from untrusted input.
type Decoder struct {
	Limits Limits
	Logger *log.Logger
}

// NewDecoder returns a decoder with default limits. A nil logger uses
// log.Default().
func NewDecoder(logger *log.Logger) *Decoder {
	return &Decoder{Limits: DefaultLimits(), Logger: logger}
}

// Decode is shorthand for NewDecoder(nil).Decode(data).
func Decode(data []byte) (*Result, error) {
	return NewDecoder(nil).Decode(data)
}

// listing is one appearance of a record in the payload. The same id may be
// listed more than once, e.g. at the top level and again nested under its
// parent.
type listing struct {
	path   string
	parent int        // index of the enclosing listing, -1 at the top level
	rec    *rawRecord // nil when nothing could be read
	err    error      // why the record is unusable
	id     string     // resolved node id, "" when the listing is dropped
}

type edge struct {
	parent, child string
	path          string
}

type decodeRun struct {
	limits   Limits
	logger   *log.Logger
	listings []listing
	order    []string // node ids in first-appearance order
	defs     map[string]*rawRecord
	parentOf map[string]string
	edges    []edge
	res      *Result
}

// Decode parses data into a fresh diagram. See the package documentation
// for the failure rules.
func (dec *Decoder) Decode(data []byte) (*Result, error) {
	limits := dec.Limits.WithDefaults()
	logger := dec.Logger
	if logger == nil {
		logger = log.Default()
	}

	if len(data) > limits.MaxPayloadBytes {
		return nil, errs.Limit("payload bytes", limits.MaxPayloadBytes, len(data))
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errs.Wrap(errs.ErrCodeParse, err, "invalid document JSON")
	}

	run := &decodeRun{
		limits:   limits,
		logger:   logger,
		defs:     make(map[string]*rawRecord),
		parentOf: make(map[string]string),
		res:      &Result{Version: env.Version},
	}
	run.collect(env.Nodes, -1, "nodes")
	if err := run.resolve(); err != nil {
		return nil, err
	}
	if env.Version != "" && env.Version != Version {
		run.warn("version", "", fmt.Errorf("unknown version %q, reading as %s", env.Version, Version))
	}

	d, err := run.build()
	if err != nil {
		return nil, err
	}

	for _, id := range env.PaintOrder {
		d.BringToFront(id)
	}

	res := run.res
	res.Diagram = d
	res.PaintOrder = len(env.PaintOrder) > 0
	res.Title = run.truncate("title", "", env.Title, limits.MaxTitleLen)
	res.View = viewport.New()
	if env.ViewOffset != nil {
		res.View.OffsetX, res.View.OffsetY = env.ViewOffset.X, env.ViewOffset.Y
	}
	if env.Zoom != nil && *env.Zoom > 0 {
		res.View.Zoom = viewport.ClampZoom(*env.Zoom)
	}
	if env.GenerationColors != nil {
		res.Generations = run.generations(env.GenerationColors)
	}
	return res, nil
}

// collect walks the nested records in pre-order and keeps every listing,
// valid or not. Nested records of an unusable record are still walked.
func (r *decodeRun) collect(raws []json.RawMessage, parent int, path string) {
	for i, raw := range raws {
		l := listing{path: fmt.Sprintf("%s[%d]", path, i), parent: parent}

		var rec rawRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			l.err = errs.Wrap(errs.ErrCodeValidation, err, "malformed node record")
			var shell struct {
				ID       string            `json:"id"`
				Children []json.RawMessage `json:"children"`
			}
			if json.Unmarshal(raw, &shell) == nil {
				l.rec = &rawRecord{ID: shell.ID, Children: shell.Children}
			}
		} else {
			if err := validate.Struct(&rec); err != nil {
				l.err = errs.Wrap(errs.ErrCodeValidation, formatValidationError(err), "invalid node record")
			}
			l.rec = &rec
		}

		idx := len(r.listings)
		r.listings = append(r.listings, l)
		if l.rec != nil {
			r.collect(l.rec.Children, idx, l.path+".children")
		}
	}
}

// resolve assigns ids, enforces the node limit and builds the child to
// parent index over every children array. A node is a root iff no kept
// record lists it as a child.
func (r *decodeRun) resolve() error {
	// The first valid listing of an id defines the node; later ones only
	// contribute edges.
	for i := range r.listings {
		l := &r.listings[i]
		if l.err != nil {
			continue
		}
		l.id = l.rec.ID
		if l.id == "" {
			l.id = diagram.NewID()
		}
		if _, seen := r.defs[l.id]; !seen {
			r.defs[l.id] = l.rec
			r.order = append(r.order, l.id)
		}
	}

	// An unusable listing of an id defined elsewhere still places that node.
	var dropped, ignored []int
	for i := range r.listings {
		l := &r.listings[i]
		if l.err == nil {
			continue
		}
		if l.rec != nil && l.rec.ID != "" {
			if _, ok := r.defs[l.rec.ID]; ok {
				l.id = l.rec.ID
				ignored = append(ignored, i)
				continue
			}
		}
		dropped = append(dropped, i)
	}
	if n := len(r.order) + len(dropped); n > r.limits.MaxNodes {
		return errs.Limit("nodes", r.limits.MaxNodes, n)
	}
	for _, i := range dropped {
		l := r.listings[i]
		id := ""
		if l.rec != nil {
			id = l.rec.ID
		}
		r.skip(l.path, id, l.err)
	}
	for _, i := range ignored {
		l := r.listings[i]
		r.warn(l.path, l.id, fmt.Errorf("using the record listed elsewhere: %w", l.err))
	}

	for _, l := range r.listings {
		if l.id == "" || l.parent < 0 {
			continue
		}
		// Children of a dropped record load as roots.
		p := r.listings[l.parent].id
		if p == "" {
			continue
		}
		prev, ok := r.parentOf[l.id]
		switch {
		case !ok:
			r.parentOf[l.id] = p
			r.edges = append(r.edges, edge{parent: p, child: l.id, path: l.path})
		case prev != p:
			r.warn(l.path, l.id, errs.New(errs.ErrCodeValidation, "also listed under %q, keeping parent %q", p, prev))
		}
	}
	return nil
}

// build creates the diagram: nodes in first-appearance order, then edges in
// listing order so children keep the order of their parent's array.
func (r *decodeRun) build() (*diagram.Diagram, error) {
	d := diagram.New()
	for _, id := range r.order {
		if err := d.AddNode(r.node(id, r.defs[id])); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInternal, err, "rebuild diagram")
		}
	}
	for _, e := range r.edges {
		// Records listing each other would close a cycle; the child stays a
		// root.
		if err := d.Connect(e.parent, e.child); err != nil {
			r.warn(e.path, e.child, err)
		}
	}
	return d, nil
}

func (r *decodeRun) node(id string, rec *rawRecord) *diagram.Node {
	n := diagram.NewNode("", *rec.X, *rec.Y)
	n.ID = id
	n.Text = r.truncate("text", id, rec.Text, r.limits.MaxTextLen)
	n.Notes = r.truncate("notes", id, rec.Notes, r.limits.MaxNotesLen)

	if rec.Width != nil && *rec.Width > 0 {
		n.Width = *rec.Width
	}
	if rec.Height != nil && *rec.Height > 0 {
		n.Height = *rec.Height
	}
	if rec.Shape != "" {
		if s, ok := diagram.ParseShape(rec.Shape); ok {
			n.Shape = s
		} else {
			r.warn("shape", id, fmt.Errorf("unknown shape %q, using %s", rec.Shape, n.Shape))
		}
	}
	n.Color = r.color("color", id, rec.Color, n.Color)
	n.TextColor = r.color("textColor", id, rec.TextColor, n.TextColor)
	n.BorderColor = r.color("borderColor", id, rec.BorderColor, n.BorderColor)
	if rec.BorderStyle != "" {
		n.BorderStyle = rec.BorderStyle
	}
	if rec.BorderWidth != nil {
		n.BorderWidth = *rec.BorderWidth
	}
	if rec.FontSize > 0 {
		n.FontSize = rec.FontSize
	}
	if rec.FontWeight != "" {
		n.FontWeight = rec.FontWeight
	}
	if rec.Icon != nil {
		n.SetIcon(*rec.Icon)
	}
	n.Collapsed = rec.Collapsed

	for k, v := range rec.Metadata {
		k = r.truncate("metadata key", id, k, r.limits.MaxMetaKeyLen)
		n.Metadata[k] = r.truncate("metadata value", id, v, r.limits.MaxMetaValueLen)
	}
	for _, tag := range rec.Tags {
		n.Tags = append(n.Tags, r.truncate("tag", id, tag, r.limits.MaxTagLen))
	}
	n.Links = rec.Links
	n.Attachments = rec.Attachments
	return n
}

func (r *decodeRun) color(field, id, value, fallback string) string {
	if value == "" {
		return fallback
	}
	if !palette.Valid(value) {
		r.warn(field, id, fmt.Errorf("invalid color %q, using %s", value, fallback))
		return fallback
	}
	return palette.Normalize(value)
}

func (r *decodeRun) generations(raw map[string]string) *palette.Generations {
	m := make(map[int]string, len(raw))
	for k, c := range raw {
		depth, err := strconv.Atoi(k)
		if err != nil || depth < 0 {
			r.warn("generationColors", "", fmt.Errorf("invalid depth key %q", k))
			continue
		}
		if !palette.Valid(c) {
			r.warn("generationColors", "", fmt.Errorf("invalid color %q for depth %d", c, depth))
			continue
		}
		m[depth] = c
	}
	g := palette.NewGenerations()
	g.Restore(m)
	return g
}

func (r *decodeRun) truncate(field, id, s string, n int) string {
	out, cut := Truncate(s, n)
	if cut {
		r.warn(field, id, fmt.Errorf("truncated to %d characters", n))
	}
	return out
}

func (r *decodeRun) skip(path, id string, err error) {
	r.res.Skipped++
	r.warn(path, id, err)
}

func (r *decodeRun) warn(path, id string, err error) {
	w := Warning{Path: path, ID: id, Err: err}
	r.res.Warnings = append(r.res.Warnings, w)
	r.logger.Warn("document", "path", path, "id", id, "err", err)
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	for _, e := range validationErrs {
		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", e.Field())
		case "gt", "gte":
			return fmt.Errorf("%s: must be %s %s", e.Field(), e.Tag(), e.Param())
		default:
			return fmt.Errorf("%s: validation failed (%s)", e.Field(), e.Tag())
		}
	}
	return err
}
