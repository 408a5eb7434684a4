package config

import (
	"strings"
	"testing"

	lua "github.com/yuin/gopher-lua"
)

func TestSandboxBlocksGlobals(t *testing.T) {
	tests := []struct {
		name   string
		code   string
		errMsg string
	}{
		{"os.execute", `os.execute("ls")`, "attempt to index"},
		{"os.getenv", `x = os.getenv("GITHUB_TOKEN")`, "attempt to index"},
		{"io.open", `f = io.open("/etc/passwd")`, "attempt to index"},
		{"io.popen", `f = io.popen("curl example.com")`, "attempt to index"},
		{"require", `socket = require("socket")`, "attempt to call"},
		{"dofile", `dofile("/tmp/evil.lua")`, "attempt to call"},
		{"loadfile", `f = loadfile("/tmp/evil.lua")`, "attempt to call"},
		{"load", `f = load("return 1")`, "attempt to call"},
		{"loadstring", `f = loadstring("return 1")`, "attempt to call"},
		{"debug", `debug.getinfo(1)`, "attempt to index"},
		{"setmetatable", `setmetatable({}, {})`, "attempt to call"},
		{"rawset", `rawset(_G, "x", 1)`, "attempt to call"},
		{"collectgarbage", `collectgarbage()`, "attempt to call"},
		{"package.loaded.os", `package.loaded.os.execute("true")`, "attempt to index"},
		{"package.loaded.io", `package.loaded.io.open("/tmp/x", "w")`, "attempt to index"},
		{"_G.package", `_G.package.loaded.os.getenv("HOME")`, "attempt to index"},
		{"string metatable", `getmetatable("").__index.rep("x", 2)`, "attempt to call"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			L := newSandboxedVM()
			defer L.Close()

			err := L.DoString(tt.code)
			if err == nil {
				t.Fatalf("DoString(%q) succeeded, want error", tt.code)
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("DoString(%q) error = %v, want substring %q", tt.code, err, tt.errMsg)
			}
		})
	}
}

func TestSandboxLeavesNoUnsafeModules(t *testing.T) {
	L := newSandboxedVM()
	defer L.Close()

	loaded, ok := L.GetField(L.Get(lua.RegistryIndex), "_LOADED").(*lua.LTable)
	if !ok {
		t.Fatal("_LOADED registry table missing")
	}
	for _, name := range []string{lua.OsLibName, lua.IoLibName, lua.LoadLibName, lua.DebugLibName, lua.ChannelLibName, lua.CoroutineLibName} {
		if v := loaded.RawGetString(name); v != lua.LNil {
			t.Errorf("module %q loaded in sandbox: %v", name, v)
		}
	}
}

func TestSandboxKeepsSafeLibraries(t *testing.T) {
	L := newSandboxedVM()
	defer L.Close()

	code := `
		parts = {}
		table.insert(parts, string.lower("OPT"))
		table.insert(parts, tostring(math.floor(3.7)))
		for _, v in ipairs({"a", "b"}) do table.insert(parts, v) end
		result = table.concat(parts, "/")
		kind = type(result)
	`
	if err := L.DoString(code); err != nil {
		t.Fatalf("safe libraries failed: %v", err)
	}

	if got := L.GetGlobal("result").String(); got != "opt/3/a/b" {
		t.Errorf("result = %q, want %q", got, "opt/3/a/b")
	}
	if got := L.GetGlobal("kind"); got.Type() != lua.LTString || got.String() != "string" {
		t.Errorf("type(result) = %v", got)
	}
}

func TestSandboxCallStackLimit(t *testing.T) {
	L := newSandboxedVM()
	defer L.Close()

	err := L.DoString(`local function f(n) return 1 + f(n + 1) end; f(1)`)
	if err == nil {
		t.Fatal("unbounded recursion succeeded, want stack overflow")
	}
}
