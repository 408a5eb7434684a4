package config

import (
	lua "github.com/yuin/gopher-lua"
)

// sandboxedGlobals are removed from every config VM: process and file
// access, code loading, and the functions that bypass read-only tables.
var sandboxedGlobals = []string{
	"os",
	"io",
	"package",
	"require",
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"debug",
	"module",
	"rawset",
	"rawget",
	"setmetatable",
	"getmetatable",
	"setfenv",
	"getfenv",
	"collectgarbage",
}

// safeLibs are the only standard libraries opened in a config VM. The
// package, os, io, debug and channel libraries are never loaded, so they
// cannot be reached through package.loaded either.
var safeLibs = []struct {
	name string
	open lua.LGFunction
}{
	{lua.BaseLibName, lua.OpenBase},
	{lua.TabLibName, lua.OpenTable},
	{lua.StringLibName, lua.OpenString},
	{lua.MathLibName, lua.OpenMath},
}

// sandboxLuaVM removes dangerous globals from L. The string, table and math
// libraries and the basic functions (type, tostring, pairs, ...) remain.
func sandboxLuaVM(L *lua.LState) {
	for _, name := range sandboxedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
}

// newSandboxedVM creates a Lua VM with bounded stacks, only the safe
// libraries opened, and sandboxing applied.
func newSandboxedVM() *lua.LState {
	L := lua.NewState(lua.Options{
		CallStackSize: 256,
		RegistrySize:  1024 * 8,
		SkipOpenLibs:  true,
	})
	for _, lib := range safeLibs {
		L.Push(L.NewFunction(lib.open))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
	sandboxLuaVM(L)
	return L
}
