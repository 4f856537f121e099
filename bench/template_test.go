package template_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/dangdungcntt/go-layout"
)

// makeLayoutFS builds a child/layout pair large enough for parse and
// execute cost to show up in the benchmarks.
func makeLayoutFS() fstest.MapFS {
	var child strings.Builder
	child.WriteString(`@extends('layout')`)
	child.WriteString(`@block('nav', 'nav', .Nav)`)
	child.WriteString(`@section('content')<ul>{{ range $i, $it := .Items }}<li>{{ $i }}: {{ $it }}</li>{{ end }}</ul>@endsection`)
	for i := range 20 {
		fmt.Fprintf(&child, "\n<!-- discarded %d -->", i)
	}
	return fstest.MapFS{
		"child.tmpl":  {Data: []byte(child.String())},
		"nav.tmpl":    {Data: []byte(`<nav>{{ .active }}</nav>`)},
		"layout.tmpl": {Data: []byte(`<html>@yield('nav'){{ .content }}</html>`)},
	}
}

func benchData() layout.Vars {
	items := make([]string, 100)
	for i := range items {
		items[i] = fmt.Sprintf("Item number %d", i)
	}
	return layout.Vars{
		"Items": items,
		"Nav":   map[string]any{"active": "home"},
	}
}

func goLoader() layout.Templates {
	return layout.Templates{
		"child": layout.TemplateFunc(func(env *layout.Env) error {
			if err := env.Inherit("layout"); err != nil {
				return err
			}
			if err := env.BeginBlock("content"); err != nil {
				return err
			}
			items, _ := env.Get("Items")
			env.Emit("<ul>")
			for i, it := range items.([]string) {
				env.Emitf("<li>%d: %s</li>", i, it)
			}
			env.Emit("</ul>")
			return env.EndBlock()
		}),
		"layout": layout.TemplateFunc(func(env *layout.Env) error {
			env.Emitf("<html>%s</html>", env.Vars().String("content"))
			return nil
		}),
	}
}

// 1) Text templates read from an fs.FS, parsed on every render
func Benchmark_Render_TextTemplates(b *testing.B) {
	e := layout.NewEngineFS(makeLayoutFS())
	data := benchData()

	out, err := e.Render(context.Background(), "child", data)
	require.NoError(b, err, "render failed")
	require.Contains(b, out.Text(), "<nav>home</nav>")

	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := e.Render(context.Background(), "child", data); err != nil {
				b.Fatalf("render failed: %v", err)
			}
		}
	})
}

// 2) Go function templates, no parsing involved
func Benchmark_Render_GoTemplates(b *testing.B) {
	e := layout.NewEngineLoader(goLoader())
	data := benchData()

	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := e.Render(context.Background(), "child", data); err != nil {
				b.Fatalf("render failed: %v", err)
			}
		}
	})
}

// 3) One Renderer re-rendered sequentially
func Benchmark_Render_ReuseRenderer(b *testing.B) {
	r, err := layout.NewRenderer(goLoader(), "child", benchData())
	require.NoError(b, err, "new renderer failed")

	b.ReportAllocs()
	b.ResetTimer()

	for b.Loop() {
		if _, err := r.Render(context.Background()); err != nil {
			b.Fatalf("render failed: %v", err)
		}
	}
}
