package layout

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	reExtend       = regexp.MustCompile(`@extends\(['"]([\w\-/. ]+)['"]\)`)                      // allow slashes for dirs
	reYield        = regexp.MustCompile(`@yield\(['"]([\w\-]+)['"](?:,\s*['"]([^)]*)['"])?\)`)   // @yield('name', 'default')
	reSectionStart = regexp.MustCompile(`@section\(['"]([\w\-]+)['"](?:,\s*['"]([^)]*)['"])?\)`) // @section('content', 'value')
	reSectionEnd   = regexp.MustCompile(`@endsection`)                                           // @endsection
	reHeader       = regexp.MustCompile(`@header\(['"]([^'"]+)['"](?:\s*,\s*(\d{3}))?\)`)        // @header('Content-Type: text/csv', 200)
	reStack        = regexp.MustCompile(`@stack\(['"]([\w\-]+)['"]\)`)                           // @stack('name')
	rePushStart    = regexp.MustCompile(`@push\(['"]([\w\-]+)['"]\)`)                            // @push('stack_name')
	rePushEnd      = regexp.MustCompile(`@endpush`)                                              // @endpush
	reInclude      = regexp.MustCompile(`@include\(['"]([\w\-/. ]+)['"](?:\s*,\s*([^)]+?))?\)`)  // @include('partial', .OtherData)
)

// @block('sidebar', 'partials/sidebar', .Data)
var reBlock = regexp.MustCompile(`@block\(['"]([\w\-]+)['"]\s*,\s*['"]([\w\-/. ]+)['"](?:\s*,\s*([^)]+?))?\)`)

// RewriteDirectives converts Blade-like directives into calls to the
// rendering primitives:
//
//	@extends('layout')                → {{ inherit "layout" }}
//	@section('name') ... @endsection  → {{ beginBlock "name" }}...{{ endBlock }}
//	@section('name', 'value')         → {{ beginBlock "name" }}value{{ endBlock }}
//	@yield('name', 'default')         → {{ yield "name" "default" }}
//	@header('Name: value', 404)       → {{ headerStatus "Name: value" 404 }}
//	@block('name', 'partial', .Data)  → {{ renderBlock "name" "partial" .Data }}
//	@include('partial', .Data)        → {{ include "partial" .Data }}
//	@push('name') ... @endpush        → {{ beginPush "name" }}...{{ endPush }}
//	@stack('name')                    → {{ stack "name" }}
//
// Everything else is left to text/template.
func RewriteDirectives(name, raw string) (string, error) {
	rest := raw

	rest = reExtend.ReplaceAllStringFunc(rest, func(m string) string {
		sm := reExtend.FindStringSubmatch(m)
		return fmt.Sprintf(`{{ inherit %q }}`, normalizeName(sm[1]))
	})

	rest = reYield.ReplaceAllStringFunc(rest, func(m string) string {
		sm := reYield.FindStringSubmatch(m)
		if sm[2] == "" {
			return fmt.Sprintf(`{{ yield %q }}`, normalizeName(sm[1]))
		}
		return fmt.Sprintf(`{{ yield %q %q }}`, normalizeName(sm[1]), sm[2])
	})

	rest = reHeader.ReplaceAllStringFunc(rest, func(m string) string {
		sm := reHeader.FindStringSubmatch(m)
		if sm[2] == "" {
			return fmt.Sprintf(`{{ header %q }}`, sm[1])
		}
		return fmt.Sprintf(`{{ headerStatus %q %s }}`, sm[1], sm[2])
	})

	rest = reBlock.ReplaceAllStringFunc(rest, func(m string) string {
		sm := reBlock.FindStringSubmatch(m)
		pipeline := strings.TrimSpace(sm[3])
		if pipeline == "" {
			return fmt.Sprintf(`{{ renderBlock %q %q }}`, sm[1], normalizeName(sm[2]))
		}
		return fmt.Sprintf(`{{ renderBlock %q %q %s }}`, sm[1], normalizeName(sm[2]), pipeline)
	})

	rest = reStack.ReplaceAllStringFunc(rest, func(m string) string {
		sm := reStack.FindStringSubmatch(m)
		return fmt.Sprintf(`{{ stack %q }}`, normalizeName(sm[1]))
	})

	rest = reInclude.ReplaceAllStringFunc(rest, func(m string) string {
		sm := reInclude.FindStringSubmatch(m)
		pipeline := strings.TrimSpace(sm[2])
		if pipeline == "" {
			pipeline = "."
		}
		return fmt.Sprintf(`{{ include %q %s }}`, normalizeName(sm[1]), pipeline)
	})

	// Parse sections
	for {
		loc := reSectionStart.FindStringSubmatchIndex(rest)
		if loc == nil {
			break
		}
		sectionName := rest[loc[2]:loc[3]]
		begin := fmt.Sprintf(`{{ beginBlock %q }}`, sectionName)
		if loc[5] > -1 {
			// @section('name', 'content')
			rest = rest[:loc[0]] + begin + rest[loc[4]:loc[5]] + `{{ endBlock }}` + rest[loc[1]:]
			continue
		}
		endIdx := reSectionEnd.FindStringIndex(rest[loc[1]:])
		if endIdx == nil {
			return "", fmt.Errorf("[%s] missing @endsection", name)
		}
		contentStart := loc[1]
		contentEnd := loc[1] + endIdx[0]
		content := strings.TrimSpace(rest[contentStart:contentEnd])
		rest = rest[:loc[0]] + begin + content + `{{ endBlock }}` + rest[contentEnd+len("@endsection"):]
	}

	// Parse pushes
	for {
		loc := rePushStart.FindStringSubmatchIndex(rest)
		if loc == nil {
			break
		}
		stackName := normalizeName(rest[loc[2]:loc[3]])
		endIdx := rePushEnd.FindStringIndex(rest[loc[1]:])
		if endIdx == nil {
			return "", fmt.Errorf("[%s] missing @endpush", name)
		}
		contentEnd := loc[1] + endIdx[0]
		content := strings.TrimSpace(rest[loc[1]:contentEnd])
		rest = rest[:loc[0]] + fmt.Sprintf(`{{ beginPush %q }}`, stackName) + content + `{{ endPush }}` + rest[contentEnd+len("@endpush"):]
	}

	// stray end directives fail at render time, like any unmatched endBlock
	rest = reSectionEnd.ReplaceAllString(rest, `{{ endBlock }}`)
	rest = rePushEnd.ReplaceAllString(rest, `{{ endPush }}`)

	return rest, nil
}
