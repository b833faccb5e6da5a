package auth

import (
	"chat-courier/errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Hash_Then_Compare(t *testing.T) {
	req := require.New(t)
	password := "Rendez-vous 8pm!"

	// Given a stored hash
	hash, err := HashPassword(password)
	req.NoError(err)
	req.True(strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=3,p=2$"))

	// Then only the original password matches
	match, err := ComparePassword(password, hash)
	req.NoError(err)
	req.True(match)

	match, err = ComparePassword("rendez-vous 8pm!", hash)
	req.NoError(err)
	req.False(match)
}

func Test_Hash_Is_Salted(t *testing.T) {
	req := require.New(t)
	first, err := HashPassword("Same-Passw0rd!")
	req.NoError(err)
	second, err := HashPassword("Same-Passw0rd!")
	req.NoError(err)
	req.NotEqual(first, second)
}

func Test_Compare_Keeps_Stored_Parameters(t *testing.T) {
	req := require.New(t)

	// Given a hash produced with cheaper parameters than the defaults
	saved := defaultParams
	defaultParams = argonParams{memory: 8 * 1024, iterations: 1, parallelism: 1, saltLength: 8, keyLength: 16}
	hash, err := HashPassword("Old-Passw0rd!")
	defaultParams = saved
	req.NoError(err)

	// Then it still verifies once the defaults are back
	match, err := ComparePassword("Old-Passw0rd!", hash)
	req.NoError(err)
	req.True(match)
}

func Test_Compare_Rejects_Malformed_Hash(t *testing.T) {
	for _, encoded := range []string{
		"",
		"plain-text",
		"$bcrypt$v=19$m=65536,t=3,p=2$c2FsdA$a2V5",
		"$argon2id$v=1$m=65536,t=3,p=2$c2FsdA$a2V5",
		"$argon2id$v=19$m=x,t=3,p=2$c2FsdA$a2V5",
		"$argon2id$v=19$m=65536,t=3,p=2$!!$a2V5",
	} {
		t.Run(encoded, func(t *testing.T) {
			match, err := ComparePassword("whatever", encoded)
			require.Error(t, err)
			require.False(t, match)
		})
	}
}

func Test_Validate_Register(t *testing.T) {
	valid := RegisterRequest{Email: "alice@example.com", Password: "Rendez-vous 8pm!", FirstName: "Alice", Color: 4}

	tests := []struct {
		name   string
		mutate func(*RegisterRequest)
		err    error
	}{
		{"valid", func(*RegisterRequest) {}, nil},
		{"profile is optional", func(r *RegisterRequest) { r.FirstName, r.Color = "", 0 }, nil},
		{"image url", func(r *RegisterRequest) { r.Image = "https://cdn.example.com/a.png" }, nil},
		{"bad email", func(r *RegisterRequest) { r.Email = "alice" }, errors.ErrValidation},
		{"bad image", func(r *RegisterRequest) { r.Image = "not a url" }, errors.ErrValidation},
		{"color out of palette", func(r *RegisterRequest) { r.Color = 16 }, errors.ErrValidation},
		{"first name too long", func(r *RegisterRequest) { r.FirstName = strings.Repeat("a", 65) }, errors.ErrValidation},
		{"short password", func(r *RegisterRequest) { r.Password = "Sh0rt!" }, errors.ErrInvalidPassword},
		{"password too long", func(r *RegisterRequest) { r.Password = strings.Repeat("Aa1!", 19) }, errors.ErrInvalidPassword},
		{"missing digit", func(r *RegisterRequest) { r.Password = "No-Digits-Here!" }, errors.ErrInvalidPassword},
		{"missing symbol", func(r *RegisterRequest) { r.Password = "NoSymbols12345" }, errors.ErrInvalidPassword},
		{"missing upper case", func(r *RegisterRequest) { r.Password = "lower-case-123!" }, errors.ErrInvalidPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := valid
			tt.mutate(&request)
			err := ValidateRegister(request)
			if tt.err == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func BenchmarkHashPassword(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = HashPassword("Benchmark-Passw0rd!")
	}
}
