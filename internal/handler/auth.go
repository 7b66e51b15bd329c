package handler

import "net/http"

// SignUpRequest is the body of POST /auth/signup.
type SignUpRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// SignInRequest is the body of POST /auth/signin.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp handles POST /auth/signup. A successful sign-up is also a sign-in.
func (s *Server) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if !decodeBody(w, r, &req) {
		return
	}
	sess, err := s.auth.SignUp(r.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

// SignIn handles POST /auth/signin.
func (s *Server) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if !decodeBody(w, r, &req) {
		return
	}
	sess, err := s.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// SignOut handles POST /auth/signout. Every token of the user stops working.
func (s *Server) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := s.auth.SignOut(r.Context(), currentUser(r)); err != nil {
		s.serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetMe handles GET /me: the signed-in user, their profile, and whether the
// profile is still loading.
func (s *Server) GetMe(w http.ResponseWriter, r *http.Request) {
	st := s.auth.Current(currentUser(r))
	if st.User == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "sign in required")
		return
	}
	writeJSON(w, http.StatusOK, st)
}
