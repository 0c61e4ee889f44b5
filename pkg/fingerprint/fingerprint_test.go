package fingerprint

import (
	"strings"
	"testing"
)

func TestCompute(t *testing.T) {
	type args struct {
		content   string
		algorithm string
	}

	tests := []struct {
		name    string
		args    args
		want    string
		wantErr bool
	}{
		{
			name: "sha256",
			args: args{content: "hello", algorithm: "sha256"},
			want: "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
		},
		{
			name: "sha1",
			args: args{content: "hello", algorithm: "sha1"},
			want: "aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d",
		},
		{
			name: "caseInsensitiveName",
			args: args{content: "hello", algorithm: "SHA256"},
			want: "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
		},
		{
			name:    "unsupported",
			args:    args{content: "hello", algorithm: "md5"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compute(strings.NewReader(tt.args.content), tt.args.algorithm)
			if (err != nil) != tt.wantErr {
				t.Errorf("Compute() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("Compute() got = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAlgorithmsComputable(t *testing.T) {
	// Every advertised algorithm must have a working constructor
	for _, alg := range Algorithms() {
		t.Run(alg, func(t *testing.T) {
			if !Supported(alg) {
				t.Errorf("Supported(%q) = false", alg)
			}
			if _, err := Compute(strings.NewReader("content"), alg); err != nil {
				t.Errorf("Compute() error = %v", err)
			}
		})
	}

	if Supported("md5") {
		t.Error("Supported(md5) = true, want false")
	}
}

func TestComputeDeterministic(t *testing.T) {
	first, err := Compute(strings.NewReader("same bytes"), "sha512")
	if err != nil {
		t.Fatal(err)
	}

	second, err := Compute(strings.NewReader("same bytes"), "sha512")
	if err != nil {
		t.Fatal(err)
	}

	if first != second {
		t.Errorf("Compute() not deterministic: %s != %s", first, second)
	}
}
