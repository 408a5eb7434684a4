package install

import "testing"

func TestReleaseURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		want string
	}{
		{"default base", "", "https://github.com/terminal-use/sb0/releases/download/v1.2.3/sb0-linux-x64"},
		{"mirror with slash", "http://127.0.0.1:8080/", "http://127.0.0.1:8080/terminal-use/sb0/releases/download/v1.2.3/sb0-linux-x64"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReleaseURL(tt.base, "terminal-use/sb0", "v1.2.3", "sb0-linux-x64"); got != tt.want {
				t.Errorf("ReleaseURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReleaseAssets(t *testing.T) {
	assets := releaseAssets("", "terminal-use/sb0", "v1.2.3-beta.1", "macos-arm64")

	want := []struct {
		kind     AssetKind
		filename string
	}{
		{AssetBinary, "sb0-macos-arm64"},
		{AssetWheels, "sb0-wheels-1.2.3-beta.1.tar.gz"},
		{AssetTemplates, "sb0-templates-1.2.3-beta.1.tar.gz"},
	}

	if len(assets) != len(want) {
		t.Fatalf("got %d assets, want %d", len(assets), len(want))
	}
	for i, w := range want {
		if assets[i].Kind != w.kind || assets[i].Filename != w.filename {
			t.Errorf("asset %d = %v %q, want %v %q", i, assets[i].Kind, assets[i].Filename, w.kind, w.filename)
		}
		wantURL := "https://github.com/terminal-use/sb0/releases/download/v1.2.3-beta.1/" + w.filename
		if assets[i].URL != wantURL {
			t.Errorf("asset %d URL = %q, want %q", i, assets[i].URL, wantURL)
		}
	}
}

func TestAssetKindString(t *testing.T) {
	if AssetWheels.String() != "wheels" || AssetTemplates.String() != "templates" || AssetBinary.String() != "binary" {
		t.Error("unexpected AssetKind strings")
	}
}
