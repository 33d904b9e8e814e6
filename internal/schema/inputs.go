package schema

import "math"

// CreatePostInput is the body of POST /blog.
type CreatePostInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// UpdatePostInput is the body of PUT /blog. ID is any JSON number; use
// PostID to get an integer key.
type UpdatePostInput struct {
	ID      float64 `json:"id"`
	Title   string  `json:"title"`
	Content string  `json:"content"`
}

// PostID returns ID as an integer, or false if it has a fractional part
// or is out of range.
func (in UpdatePostInput) PostID() (int64, bool) {
	if in.ID != math.Trunc(in.ID) || math.Abs(in.ID) > 1<<53 {
		return 0, false
	}
	return int64(in.ID), true
}

// SignupInput is the body of POST /user/signup.
type SignupInput struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     *string `json:"name,omitempty"`
}

// SigninInput is the body of POST /user/signin. Unlike signup, no
// password length is enforced.
type SigninInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ValidateCreatePost requires title and content strings.
func (v *Validator) ValidateCreatePost(body []byte) (CreatePostInput, error) {
	var in CreatePostInput
	err := v.decode(body, CreatePostID, &in)
	return in, err
}

// ValidateUpdatePost requires title and content strings and a numeric id.
func (v *Validator) ValidateUpdatePost(body []byte) (UpdatePostInput, error) {
	var in UpdatePostInput
	err := v.decode(body, UpdatePostID, &in)
	return in, err
}

// ValidateSignup requires an email and a password of at least 6 characters.
func (v *Validator) ValidateSignup(body []byte) (SignupInput, error) {
	var in SignupInput
	err := v.decode(body, SignupID, &in)
	return in, err
}

// ValidateSignin requires an email and a password string.
func (v *Validator) ValidateSignin(body []byte) (SigninInput, error) {
	var in SigninInput
	err := v.decode(body, SigninID, &in)
	return in, err
}
