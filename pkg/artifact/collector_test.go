package artifact

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestFromPath(t *testing.T) {
	type args struct {
		path string
	}

	tests := []struct {
		name string
		args args
		want Artifact
	}{
		{
			name: "simple",
			args: args{path: "/repo/commons-io-2.4.jar"},
			want: Artifact{Name: "commons-io", Version: "2.4", Path: "/repo/commons-io-2.4.jar"},
		},
		{
			name: "patchVersion",
			args: args{path: "libfoo-1.2.3.tgz"},
			want: Artifact{Name: "libfoo", Version: "1.2.3", Path: "libfoo-1.2.3.tgz"},
		},
		{
			name: "tarGz",
			args: args{path: "libbar-0.9.1.tar.gz"},
			want: Artifact{Name: "libbar", Version: "0.9.1", Path: "libbar-0.9.1.tar.gz"},
		},
		{
			name: "noVersion",
			args: args{path: "standalone.jar"},
			want: Artifact{Name: "standalone", Version: "0", Path: "standalone.jar"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromPath(tt.args.path)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FromPath() got = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGroupFromLayout(t *testing.T) {
	tests := []struct {
		name string
		args string
		want string
	}{
		{
			name: "mavenLayout",
			args: "com/example/util/1.2/util-1.2.jar",
			want: "com.example",
		},
		{
			name: "flatDir",
			args: "util-1.2.jar",
			want: "",
		},
		{
			name: "shallow",
			args: "libs/util-1.2.jar",
			want: "",
		},
		{
			name: "nestedNonMaven",
			args: "build/libs/extra/foo-1.0.jar",
			want: "",
		},
		{
			name: "versionDirMismatch",
			args: "com/example/util/2.0/util-1.2.jar",
			want: "",
		},
		{
			name: "nameDirMismatch",
			args: "com/example/other/1.2/util-1.2.jar",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := FromPath(tt.args)
			if got := groupFromLayout(tt.args, a); got != tt.want {
				t.Errorf("groupFromLayout() got = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCollectNestedIdentityStable(t *testing.T) {
	dir := t.TempDir()

	nested := filepath.Join(dir, "build", "libs", "extra")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	jar := filepath.Join(nested, "commons-io-2.4.jar")
	if err := os.WriteFile(jar, []byte("content"), 0644); err != nil {
		t.Fatal(err)
	}

	// The same file supplied via a dir walk and via a direct path must
	// resolve to a single identity with no fabricated group
	got, err := Collect([]string{dir, jar})
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	ids := []string{}
	for _, a := range got {
		ids = append(ids, a.ID())
	}

	want := []string{"commons-io:2.4"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("Collect() ids = %v, want %v", ids, want)
	}
}

func TestCollectDedupe(t *testing.T) {
	dir := t.TempDir()

	paths := []string{
		filepath.Join(dir, "commons-io-2.4.jar"),
		filepath.Join(dir, "zlib-1.2.8.rpm"),
		filepath.Join(dir, "notes.txt"),
	}
	for _, p := range paths {
		if err := os.WriteFile(p, []byte("content"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	// Same artifacts supplied twice via two collection paths
	got, err := Collect([]string{dir, paths[0]})
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	ids := []string{}
	for _, a := range got {
		ids = append(ids, a.ID())
	}

	want := []string{"commons-io:2.4", "zlib:1.2.8"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("Collect() ids = %v, want %v", ids, want)
	}
}

func TestCollectList(t *testing.T) {
	dir := t.TempDir()

	jar := filepath.Join(dir, "commons-io-2.4.jar")
	if err := os.WriteFile(jar, []byte("content"), 0644); err != nil {
		t.Fatal(err)
	}

	list := filepath.Join(dir, "artifacts.list")
	body := "# build artifacts\n\n" + jar + "\n" + filepath.Join(dir, "missing-1.0.jar") + "\n"
	if err := os.WriteFile(list, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := CollectList(list)
	if err != nil {
		t.Fatalf("CollectList() error = %v", err)
	}

	if len(got) != 1 || got[0].ID() != "commons-io:2.4" {
		t.Errorf("CollectList() got = %v, want single commons-io:2.4", got)
	}
}
