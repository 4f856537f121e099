/*
Package layout renders templates that declare named blocks and inherit from
parent templates, producing the rendered text together with the header
directives emitted anywhere in the inheritance chain.

A child template declares its parent and fills blocks:

	// pages/home.tmpl
	@extends('layout')
	@section('title')Home@endsection
	@section('content')
	<p>Hello {{ .Name }}</p>
	@endsection

The parent places them with @yield:

	// layout.tmpl
	<title>@yield('title', 'Untitled')</title>
	<main>@yield('content')</main>

Blocks are plain variables of the parent, so {{ .content }} works too, but
text/template prints "<no value>" for a block the child never filled where
@yield prints the default or nothing.

@include('partial', .Data) renders another template in place, and
@push('scripts') ... @endpush collects text that @stack('scripts') prints
anywhere later in the same render, including in parent templates.

Rendering the child runs its body first. Block output is captured and kept
out of the child's own text; the parent is then rendered with the original
variables overridden by the captured blocks, and its text becomes the
result:

	e := layout.NewEngine("views")
	out, err := e.Render(ctx, "pages/home", layout.Vars{"Name": "Ada"})

Templates do not have to be text. Any Template can drive the primitives
through Env, which makes Go functions first-class templates:

	loader := layout.Templates{
		"report": layout.TemplateFunc(func(env *layout.Env) error {
			env.SetHeader("Content-Type: text/csv")
			env.Emit("id,name\n")
			return nil
		}),
	}
*/
package layout
