// Package program caches compiled driver.ShaderCode and assembles the
// driver.ShaderFunc pairs a pipeline needs, keyed by source hash so
// the same GLSL text is never recompiled twice within a context's
// lifetime.
//
// Grounded in driver/core.go's ShaderCode/ShaderFunc/Stage types; the
// cache-by-hash strategy follows the same rationale as the teacher's
// descriptor-heap reuse in engine/internal/ctxt (avoid redundant
// driver object creation for identical inputs).
package program

import (
	"crypto/sha256"

	"github.com/nopeforge/ngpu/driver"
	"github.com/nopeforge/ngpu/gpuerr"
)

type key [sha256.Size]byte

func hashOf(stage driver.Stage, src []byte) key {
	h := sha256.New()
	h.Write([]byte{byte(stage)})
	h.Write(src)
	var k key
	copy(k[:], h.Sum(nil))
	return k
}

// entry is a refcounted cache slot.
type entry struct {
	code driver.ShaderCode
	refs int
}

// Cache deduplicates driver.ShaderCode creation across a driver.GPU's
// lifetime.
type Cache struct {
	drv     driver.GPU
	entries map[key]*entry
}

// NewCache creates an empty program cache bound to drv.
func NewCache(drv driver.GPU) *Cache {
	return &Cache{drv: drv, entries: make(map[key]*entry)}
}

// Get returns the driver.ShaderCode for src under stage, compiling and
// caching it on first use and incrementing its reference count
// otherwise. Call Put with the same (stage, src) once the caller is
// done with the returned ShaderFunc.
func (c *Cache) Get(stage driver.Stage, src []byte) (driver.ShaderFunc, error) {
	const op = "program.Cache.Get"
	k := hashOf(stage, src)
	if e, ok := c.entries[k]; ok {
		e.refs++
		return driver.ShaderFunc{Code: e.code}, nil
	}
	code, err := c.drv.NewShaderCode(src)
	if err != nil {
		return driver.ShaderFunc{}, gpuerr.Wrap(op, gpuerr.InvalidData, "shader compilation failed", err)
	}
	c.entries[k] = &entry{code: code, refs: 1}
	return driver.ShaderFunc{Code: code}, nil
}

// Put releases one reference to the ShaderCode compiled for (stage,
// src), destroying it once the reference count reaches zero.
func (c *Cache) Put(stage driver.Stage, src []byte) {
	k := hashOf(stage, src)
	e, ok := c.entries[k]
	if !ok {
		return
	}
	e.refs--
	if e.refs <= 0 {
		e.code.Destroy()
		delete(c.entries, k)
	}
}

// Destroy releases every remaining cached ShaderCode, regardless of
// reference count. Callers use this to tear down a context; it must
// not be called while pipelines still reference cached code.
func (c *Cache) Destroy() {
	for k, e := range c.entries {
		e.code.Destroy()
		delete(c.entries, k)
	}
}

// Graphics bundles the vertex and fragment ShaderFunc pair for a
// graphics pipeline, fetched (and reference-counted) from a Cache.
type Graphics struct {
	cache          *Cache
	vertSrc        []byte
	fragSrc        []byte
	Vert           driver.ShaderFunc
	Frag           driver.ShaderFunc
}

// NewGraphics compiles (or reuses) the vertex and fragment stages from
// cache.
func NewGraphics(cache *Cache, vertSrc, fragSrc []byte) (*Graphics, error) {
	const op = "program.NewGraphics"
	vert, err := cache.Get(driver.SVertex, vertSrc)
	if err != nil {
		return nil, gpuerr.Wrap(op, gpuerr.InvalidData, "vertex stage", err)
	}
	frag, err := cache.Get(driver.SFragment, fragSrc)
	if err != nil {
		cache.Put(driver.SVertex, vertSrc)
		return nil, gpuerr.Wrap(op, gpuerr.InvalidData, "fragment stage", err)
	}
	return &Graphics{cache: cache, vertSrc: vertSrc, fragSrc: fragSrc, Vert: vert, Frag: frag}, nil
}

// Destroy releases this program's references on its cached stages.
func (g *Graphics) Destroy() {
	g.cache.Put(driver.SVertex, g.vertSrc)
	g.cache.Put(driver.SFragment, g.fragSrc)
}

// Compute bundles a single compute-stage ShaderFunc fetched from a
// Cache.
type Compute struct {
	cache *Cache
	src   []byte
	Func  driver.ShaderFunc
}

// NewCompute compiles (or reuses) the compute stage from cache.
func NewCompute(cache *Cache, src []byte) (*Compute, error) {
	const op = "program.NewCompute"
	fn, err := cache.Get(driver.SCompute, src)
	if err != nil {
		return nil, gpuerr.Wrap(op, gpuerr.InvalidData, "compute stage", err)
	}
	return &Compute{cache: cache, src: src, Func: fn}, nil
}

// Destroy releases this program's reference on its cached stage.
func (c *Compute) Destroy() { c.cache.Put(driver.SCompute, c.src) }
