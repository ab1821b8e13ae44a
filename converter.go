// SPDX-License-Identifier: MIT

package nrmoifits

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/katalvlaran/nrmoifits/archive"
	"github.com/katalvlaran/nrmoifits/config"
	"github.com/katalvlaran/nrmoifits/geometry"
	"github.com/katalvlaran/nrmoifits/observable"
	"github.com/katalvlaran/nrmoifits/oifits"
	"github.com/katalvlaran/nrmoifits/spectral"
)

// Converter holds the mask geometry and run configuration. Geometry is
// derived once in New; Build and Write never modify the Converter.
type Converter struct {
	cfg       *config.Config
	positions []geometry.Position
	baselines geometry.Baselines
	triangles geometry.Triangles
	log       *Logger
	metrics   MetricsCollector
}

type options struct {
	log     *Logger
	metrics MetricsCollector
	rotate  bool
	flipY   bool
}

// Option configures New.
type Option func(*options)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithMetrics sets the metrics collector. The default discards.
func WithMetrics(m MetricsCollector) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithSkyRotation rotates hole positions by Config.SkyRotationDeg before
// deriving baselines. Off by default: positions are used as given.
func WithSkyRotation() Option { return func(o *options) { o.rotate = true } }

// WithFlipY mirrors hole positions about the x axis (detector parity)
// before any rotation.
func WithFlipY() Option { return func(o *options) { o.flipY = true } }

// New derives baselines and closure triangles from positions.
// A nil cfg selects the defaults of config.New.
func New(positions []geometry.Position, cfg *config.Config, opts ...Option) (*Converter, error) {
	o := options{log: NoopLogger(), metrics: NoopMetricsCollector{}}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	if cfg == nil {
		var err error
		if cfg, err = config.New(); err != nil {
			return nil, err
		}
	} else if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ctx := context.Background()
	o.log.LogNotices(ctx, cfg.Notices())

	pos := slices.Clone(positions)
	if o.flipY {
		pos = geometry.FlipY(pos)
	}
	rot := 0.0
	if o.rotate {
		rot = cfg.SkyRotationDeg()
		pos = geometry.Rotate(pos, geometry.DegToRad(rot))
	}

	c := &Converter{
		cfg:       cfg,
		positions: pos,
		baselines: geometry.EnumerateBaselines(pos),
		triangles: geometry.EnumerateTriangles(pos),
		log:       o.log,
		metrics:   o.metrics,
	}
	o.log.LogGeometry(ctx, len(pos), c.baselines.Len(), c.triangles.Len(), rot)

	return c, nil
}

// Config returns the run configuration.
func (c *Converter) Config() *config.Config { return c.cfg }

// Holes returns the number of mask holes.
func (c *Converter) Holes() int { return len(c.positions) }

// Positions returns a copy of the (possibly rotated) hole positions.
func (c *Converter) Positions() []geometry.Position { return slices.Clone(c.positions) }

// Baselines returns the baseline table.
func (c *Converter) Baselines() geometry.Baselines { return c.baselines }

// Triangles returns the closure-triangle table.
func (c *Converter) Triangles() geometry.Triangles { return c.triangles }

// Build assembles a collection from in-memory arrays. Rows may cover
// either the clipped channels or every original channel.
func (c *Converter) Build(ch *spectral.Channels, m observable.Measurements) (*observable.Collection, error) {
	start := time.Now()
	coll, err := observable.Build(observable.Input{
		Holes:     len(c.positions),
		Baselines: c.baselines,
		Triangles: c.triangles,
		Channels:  ch,
		Target:    observable.NewTarget(c.cfg.Object, c.cfg.RA, c.cfg.Dec),
		Array:     observable.PlaceholderArray(c.cfg.ArrayName),
		Date:      c.cfg.Date,
		IntTime:   c.cfg.IntTime,
		PhaseCeil: c.cfg.PhaseCeil,
		Data:      m,
	})
	c.log.LogBuild(context.Background(), coll, err)
	c.metrics.RecordBuild(time.Since(start), flaggedPhases(coll), err)

	return coll, err
}

// flaggedPhases counts flagged closure-phase samples.
func flaggedPhases(c *observable.Collection) int {
	if c == nil {
		return 0
	}
	n := 0
	for _, r := range c.T3 {
		for _, f := range r.Flags {
			if f {
				n++
			}
		}
	}

	return n
}

// BuildFromText reads v2, pha and cp tables from Config.Path for every
// channel of ch and assembles a collection.
func (c *Converter) BuildFromText(ch *spectral.Channels) (*observable.Collection, error) {
	if ch == nil {
		return nil, observable.ErrNoChannels
	}
	start := time.Now()
	m, err := observable.LoadText(c.cfg.Path, ch.Len(), c.baselines.Len(), c.triangles.Len())
	if err != nil {
		c.log.LogBuild(context.Background(), nil, err)
		c.metrics.RecordBuild(time.Since(start), 0, err)
		return nil, err
	}

	return c.Build(ch, m)
}

// Write encodes coll, stores it under Config.Path+saveName, reads it back
// and checks every table. Names ending in ".gz" are gzip-compressed.
// It returns the storage key.
//
// Implementation:
//   - Stage 1: lay out the OIFITS document and encode it.
//   - Stage 2: Put, then Get the same key.
//   - Stage 3: decode and compare extension names and row counts.
func (c *Converter) Write(ctx context.Context, store archive.Store, coll *observable.Collection, saveName string) (key string, err error) {
	start, size := time.Now(), 0
	defer func() { c.metrics.RecordWrite(time.Since(start), size, err) }()

	if store == nil {
		return "", ErrNilStore
	}
	if coll == nil {
		return "", ErrNilCollection
	}
	key = c.cfg.Path + saveName
	log := c.log.WithFile(key)

	doc := &oifits.Document{
		Collection:  coll,
		Telescope:   c.cfg.Telescope,
		ParAng:      c.cfg.ParAng,
		ParAngRange: c.cfg.ParAngRange,
		Covariance:  c.cfg.Covariance,
	}
	data, err := oifits.Marshal(doc, oifits.Compressed(saveName))
	if err != nil {
		err = fmt.Errorf("encode %s: %w", key, err)
		log.LogWrite(ctx, key, 0, err)
		return "", err
	}
	size = len(data)
	if err := store.Put(ctx, key, data); err != nil {
		err = fmt.Errorf("store %s: %w", key, err)
		log.LogWrite(ctx, key, 0, err)
		return "", err
	}

	back, err := store.Get(ctx, key)
	if err != nil {
		err = fmt.Errorf("read back %s: %w", key, err)
		log.LogWrite(ctx, key, 0, err)
		return "", err
	}
	f, err := oifits.Decode(bytes.NewReader(back))
	if err != nil {
		err = fmt.Errorf("decode %s: %w: %w", key, ErrReadback, err)
		log.LogWrite(ctx, key, 0, err)
		return "", err
	}
	if err := verify(f, doc); err != nil {
		err = fmt.Errorf("%s: %w", key, err)
		log.LogWrite(ctx, key, 0, err)
		return "", err
	}
	log.LogWrite(ctx, key, len(data), nil)

	return key, nil
}

// verify checks that f holds the extensions of doc with the expected rows.
func verify(f *oifits.File, doc *oifits.Document) error {
	coll := doc.Collection
	want := []string{"PRIMARY", oifits.TableWavelength, oifits.TableArray, oifits.TableTarget,
		oifits.TableVis, oifits.TableVis2, oifits.TableT3}
	if doc.Covariance != nil {
		want = append(want, oifits.ImageCovariance)
	}
	if got := f.Names(); !slices.Equal(got, want) {
		return fmt.Errorf("extensions %v, want %v: %w", got, want, ErrReadback)
	}

	rows := map[string]int{
		oifits.TableWavelength: coll.Channels.Len(),
		oifits.TableArray:      len(coll.Array.Stations),
		oifits.TableTarget:     1,
		oifits.TableVis:        0,
		oifits.TableVis2:       len(coll.Vis2),
		oifits.TableT3:         len(coll.T3),
	}
	for _, name := range want[1:7] {
		t, _ := f.Table(name)
		n, err := t.Rows()
		if err != nil {
			return fmt.Errorf("%s: %w: %w", name, ErrReadback, err)
		}
		if n != rows[name] {
			return fmt.Errorf("%s has %d rows, want %d: %w", name, n, rows[name], ErrReadback)
		}
	}

	return nil
}
