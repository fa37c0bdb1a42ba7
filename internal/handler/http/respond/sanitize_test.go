package respond

import (
	"errors"
	"testing"
)

func TestSanitizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "nil",
			err:  nil,
			want: "",
		},
		{
			name: "url dsn",
			err:  errors.New("dial postgres://tagger:s3cr3t@db:5432/articles failed"),
			want: "dial postgres://tagger:****@db:5432/articles failed",
		},
		{
			name: "keyword dsn",
			err:  errors.New("cannot parse host=db user=tagger password=s3cr3t dbname=articles"),
			want: "cannot parse host=db user=tagger password=**** dbname=articles",
		},
		{
			name: "quoted keyword password",
			err:  errors.New("password='a b c' sslmode=disable"),
			want: "password=**** sslmode=disable",
		},
		{
			name: "no secrets",
			err:  errors.New("storage error during insert_tags: referenced article does not exist"),
			want: "storage error during insert_tags: referenced article does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeError(tt.err); got != tt.want {
				t.Errorf("SanitizeError() = %q, want %q", got, tt.want)
			}
		})
	}
}
