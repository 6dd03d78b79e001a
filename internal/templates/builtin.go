package templates

import (
	"embed"
	"io/fs"
)

//go:embed builtin
var builtinFS embed.FS

// BuiltinFS returns the embedded default fragments rooted at the builtin
// directory (docs/, layouts/, includes/, verbmd/).
func BuiltinFS() fs.FS {
	sub, err := fs.Sub(builtinFS, "builtin")
	if err != nil {
		// The directory is embedded at compile time.
		panic(err)
	}
	return sub
}

// BasicVerbTemplate returns the skeleton written by the "new" task.
func BasicVerbTemplate() ([]byte, error) {
	return fs.ReadFile(BuiltinFS(), "verbmd/basic.md")
}

// StaticIncludes is the in-memory include set registered after the built-in
// include directory and before the project's docs directory.
var StaticIncludes = MapSource{
	"install-npm":    "Install with [npm](https://www.npmjs.com/):\n\n```sh\n$ npm install --save {{ name }}\n```",
	"install-global": "Install globally with [npm](https://www.npmjs.com/):\n\n```sh\n$ npm install --global {{ name }}\n```",
	"install-yarn":   "Install with [yarn](https://yarnpkg.com):\n\n```sh\n$ yarn add {{ name }}\n```",
	"footer":         "_This file was generated by [readmegen](https://git.home.luguber.info/inful/readmegen) on {{ date }}._",
}

// StaticBadges is the in-memory badge set; it is the only badge source.
var StaticBadges = MapSource{
	"npm":       "[![NPM version](https://img.shields.io/npm/v/{{ name }}.svg?style=flat)](https://www.npmjs.com/package/{{ name }})",
	"downloads": "[![NPM monthly downloads](https://img.shields.io/npm/dm/{{ name }}.svg?style=flat)](https://npmjs.org/package/{{ name }})",
	"license":   "[![License](https://img.shields.io/badge/license-{{ license }}-blue.svg)](LICENSE)",
	"travis":    "[![Build Status](https://img.shields.io/travis/{{ with repository }}{{ .owner }}/{{ .name }}{{ end }}.svg?style=flat)](https://travis-ci.org/{{ with repository }}{{ .owner }}/{{ .name }}{{ end }})",
	"gitter":    "[![Gitter](https://badges.gitter.im/join_chat.svg)](https://gitter.im/{{ with repository }}{{ .owner }}/{{ .name }}{{ end }})",
}
