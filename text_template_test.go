package layout_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"
	"text/template"

	"github.com/stretchr/testify/require"

	"github.com/dangdungcntt/go-layout"
)

func mapFS(files map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, content := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return fsys
}

func TestTextTemplate_InheritScenario(t *testing.T) {
	loader := layout.NewFSLoader(mapFS(map[string]string{
		"child.tmpl":  `{{ inherit "layout" }}{{ beginBlock "title" }}Hi{{ endBlock }}`,
		"layout.tmpl": `{{ .title }}`,
	}))

	out, err := render(t, loader, "child", layout.Vars{})
	require.NoError(t, err)
	require.Equal(t, "Hi", out.Text())
}

func TestTextTemplate_Directives(t *testing.T) {
	loader := layout.NewFSLoader(mapFS(map[string]string{
		"layout.tmpl": `@yield('nav')<title>@yield('title', 'Untitled')</title>|@yield('content')`,
		"pages/home.tmpl": `@extends('layout')
@header('X-Page: home')
@block('nav', 'partials/nav', .Nav)
@section('title', 'Home')
@section('content')
  Hello {{ upper .Name }}
@endsection
this text is discarded`,
		"partials/nav.tmpl": `@header('X-Nav: 1')[{{ .active }}|{{ .parent.Name }}]`,
	}))

	out, err := render(t, loader, "pages/home", layout.Vars{
		"Name": "Ada",
		"Nav":  map[string]any{"active": "home"},
	}, layout.WithHelpers(map[string]any{"upper": strings.ToUpper}))
	require.NoError(t, err)
	require.Equal(t, "[home|Ada]<title>Home</title>|Hello ADA", out.Text())
	require.Equal(t, []layout.Header{
		{Value: "X-Page: home", Replace: true},
		{Value: "X-Nav: 1", Replace: true},
	}, out.Headers())
}

func TestTextTemplate_YieldDefault(t *testing.T) {
	loader := layout.NewFSLoader(mapFS(map[string]string{
		"layout.tmpl": `<title>@yield('title', 'Untitled')</title>@yield('content')`,
	}))

	out, err := render(t, loader, "layout", nil)
	require.NoError(t, err)
	require.Equal(t, "<title>Untitled</title>", out.Text())
}

func TestTextTemplate_UnfilledBlockIsEmpty(t *testing.T) {
	loader := layout.NewFSLoader(mapFS(map[string]string{
		"page.tmpl":   `@extends('layout')`,
		"layout.tmpl": `[@yield('title')]`,
	}))

	out, err := render(t, loader, "page", nil)
	require.NoError(t, err)
	require.Equal(t, "[]", out.Text())
}

func TestTextTemplate_IncludeAndStacks(t *testing.T) {
	loader := layout.NewFSLoader(mapFS(map[string]string{
		"layout.tmpl":        `<head>@stack('scripts')</head>@yield('content')`,
		"page.tmpl":          `@extends('layout')@push('scripts')p@endpush@section('content')@include('partials/card', .Item)@include('partials/card', .Other)@endsection`,
		"partials/card.tmpl": `@push('scripts')c@endpush[{{ .title }}|{{ .parent.site }}]`,
	}))

	out, err := render(t, loader, "page", layout.Vars{
		"site":  "S",
		"Item":  map[string]any{"title": "A"},
		"Other": map[string]any{"title": "B"},
	})
	require.NoError(t, err)
	require.Equal(t, "<head>pcc</head>[A|S][B|S]", out.Text())
}

func TestTextTemplate_RenderBlockWithDict(t *testing.T) {
	loader := layout.NewFSLoader(mapFS(map[string]string{
		"page.tmpl":   `{{ renderBlock "nav" "nav" (dict "active" "home") }}{{ inherit "layout" }}`,
		"nav.tmpl":    `{{ headerAppend "X-Nav: a" }}nav:{{ .active }}`,
		"layout.tmpl": `{{ headerStatus "HTTP/1.1 201 Created" 201 }}<{{ .nav }}>`,
	}))

	out, err := render(t, loader, "page", nil)
	require.NoError(t, err)
	require.Equal(t, "<nav:home>", out.Text())
	require.Equal(t, []layout.Header{
		{Value: "X-Nav: a", Replace: false},
		{Value: "HTTP/1.1 201 Created", Replace: true, Status: 201},
	}, out.Headers())
}

func TestTextTemplate_PrimitiveErrorIsNotWrapped(t *testing.T) {
	loader := layout.NewFSLoader(mapFS(map[string]string{
		"page.tmpl": `before{{ endBlock }}after`,
	}))

	_, err := render(t, loader, "page", nil)
	require.ErrorIs(t, err, layout.ErrInvalidState)
	var execErr template.ExecError
	require.False(t, errors.As(err, &execErr))
}

func TestTextTemplate_StrayEndSection(t *testing.T) {
	loader := layout.NewFSLoader(mapFS(map[string]string{
		"page.tmpl": `text @endsection`,
	}))

	_, err := render(t, loader, "page", nil)
	require.ErrorIs(t, err, layout.ErrInvalidState)
}

func TestTextTemplate_ParseError(t *testing.T) {
	loader := layout.NewFSLoader(mapFS(map[string]string{
		"page.tmpl": `{{ if }}`,
	}))

	_, err := render(t, loader, "page", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "[page] parse template")
}

func TestTextTemplate_InvalidHelpersAreSkipped(t *testing.T) {
	tmpl, err := layout.NewTextTemplate("page", `{{ shout "hi" }}`)
	require.NoError(t, err)
	loader := layout.Templates{"page": tmpl}

	out, err := render(t, loader, "page", nil, layout.WithHelpers(map[string]any{
		"shout":      func(s string) string { return strings.ToUpper(s) + "!" },
		"not-valid":  func() string { return "" },
		"notAFunc":   42,
		"tooManyOut": func() (string, string) { return "", "" },
	}))
	require.NoError(t, err)
	require.Equal(t, "HI!", out.Text())
}

func TestTextTemplate_HelpersCannotShadowPrimitives(t *testing.T) {
	tmpl, err := layout.NewTextTemplate("page", `{{ beginBlock "a" }}x{{ endBlock }}y`)
	require.NoError(t, err)

	out, err := render(t, layout.Templates{"page": tmpl}, "page", nil, layout.WithHelpers(map[string]any{
		"beginBlock": func(string) string { return "shadowed" },
	}))
	require.NoError(t, err)
	require.Equal(t, "y", out.Text())
}

func TestTextTemplate_MixedWithGoTemplates(t *testing.T) {
	page, err := layout.NewTextTemplate("page", `@extends('layout')@section('body')text@endsection`)
	require.NoError(t, err)
	loader := layout.Templates{
		"page": page,
		"layout": layout.TemplateFunc(func(env *layout.Env) error {
			env.Emitf("[%s]", env.Vars().String("body"))
			return nil
		}),
	}

	out, err := render(t, loader, "page", nil)
	require.NoError(t, err)
	require.Equal(t, "[text]", out.Text())
}

func TestTextTemplate_RenderContext(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "v")
	loader := layout.Templates{
		"page": layout.TemplateFunc(func(env *layout.Env) error {
			env.Emitf("%v", env.Context().Value(key{}))
			return nil
		}),
	}

	r, err := layout.NewRenderer(loader, "page", nil)
	require.NoError(t, err)
	out, err := r.Render(ctx)
	require.NoError(t, err)
	require.Equal(t, "v", out.Text())
}
