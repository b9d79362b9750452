package common

import (
	"encoding/json"
	"io"
	"log"
	"math/rand"
	"net/http"

	"golang.org/x/crypto/argon2"
)

// Envelope is the JSON shape of every API response.
type Envelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Count      *int        `json:"count,omitempty"`
	Total      *int64      `json:"total,omitempty"`
	Pagination interface{} `json:"pagination,omitempty"`
	Errors     interface{} `json:"errors,omitempty"`
}

func WriteEnvelope(w http.ResponseWriter, code int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	WriteRespJSON(w, env)
}

func WriteData(w http.ResponseWriter, code int, data interface{}) {
	WriteEnvelope(w, code, Envelope{Success: true, Data: data})
}

func WriteMsg(w http.ResponseWriter, msg string, code int) {
	WriteEnvelope(w, code, Envelope{Success: code < 400, Message: msg})
}

var letterRunes = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")

func RandStringRunes(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = letterRunes[rand.Intn(len(letterRunes))]
	}
	return string(b)
}

func HashPass(plainPassword, salt string) []byte {
	hashedPass := argon2.IDKey([]byte(plainPassword), []byte(salt), 1, 64*1024, 4, 32)
	res := []byte(salt)
	return append(res, hashedPass...)
}

func ParseReqBody(body io.Reader, ptr interface{}) error {
	err := json.NewDecoder(body).Decode(ptr)
	if err != nil {
		return err
	}
	return nil
}

func WriteRespJSON(w http.ResponseWriter, data interface{}) {
	resp, err := json.Marshal(data)
	if err != nil {
		log.Println("common: JSON marshaling failed", err)
		return
	}

	_, err = w.Write(resp)
	if err != nil {
		log.Println("common: failed writing response", err)
	}
}
