package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"sync/atomic"
	"time"
)

const serverPort = 8080

type contact struct {
	ID          int64      `json:"id"`
	Salutation  string     `json:"salutation"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	DisplayName string     `json:"displayName"`
	BirthDate   *time.Time `json:"birthDate,omitempty"`
	Email       string     `json:"email"`
	PhoneNumber *string    `json:"phoneNumber,omitempty"`
}

// emailCounter makes every posted email unique. The API rejects duplicate
// email addresses with a 409.
var emailCounter int64

// Usage example on the command line:
// > go run main.go
func main() {
	fmt.Println()
	fmt.Println("  Elements      POST       PUT       GET    DELETE ")
	fmt.Println("---------------------------------------------------")
	sizes := []int{1000, 5000, 10000, 50000, 100000}
	for _, loops := range sizes {
		firstID, _ := sendPostRequest()
		fmt.Printf("%10d", loops)
		{
			// POST requests
			var duration int64
			for i := 0; i < loops; i++ {
				_, d := sendPostRequest()
				duration += d
			}
			fmt.Printf("%10d", duration/int64(loops*1000))
		}
		{
			// PUT requests
			f := func(id int64) int64 {
				return sendPutGetDeleteRequest(id, http.MethodPut, bytes.NewReader(putBody(id)))
			}
			callInLoop(firstID, loops, f)
		}
		{
			// GET requests
			f := func(id int64) int64 {
				return sendPutGetDeleteRequest(id, http.MethodGet, nil)
			}
			callInLoop(firstID, loops, f)
		}
		{
			// DELETE requests
			f := func(id int64) int64 {
				return sendPutGetDeleteRequest(id, http.MethodDelete, nil)
			}
			callInLoop(firstID, loops, f)
		}
		sendPutGetDeleteRequest(firstID, http.MethodDelete, nil)
		fmt.Println()
	}
}

func callInLoop(firstID int64, loops int, f func(id int64) int64) {
	ids := createRandomSliceWithIDs(firstID+1, loops)
	var duration int64
	for _, id := range ids {
		d := f(id)
		duration += d
	}
	fmt.Printf("%10d", duration/int64(loops*1000))
}

func createRandomSliceWithIDs(firstID int64, loops int) []int64 {
	ids := make([]int64, 0, loops)
	for i := 0; i < loops; i++ {
		ids = append(ids, firstID+int64(i))
	}
	rand.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
	return ids
}

// postBody builds a create payload with a unique email address.
func postBody() []byte {
	n := atomic.AddInt64(&emailCounter, 1)
	return []byte(fmt.Sprintf(`{
		"salutation": "Mr",
		"firstName": "Marcus",
		"lastName": "Antonius",
		"birthDate": "1969-11-09T00:00:00Z",
		"email": "marcus.antonius.%d.%d@example.com",
		"phoneNumber": "999777555"
	}`, time.Now().UnixNano(), n))
}

// putBody builds an update payload whose email is derived from the contact
// id, so that updates of different contacts never collide with each other.
func putBody(id int64) []byte {
	return []byte(fmt.Sprintf(`{
		"salutation": "Mr",
		"firstName": "Marcus",
		"lastName": "Aurelius",
		"birthDate": "1969-04-26T00:00:00Z",
		"email": "updated.%d@example.com",
		"phoneNumber": "999777556"
	}`, id))
}

func sendPostRequest() (int64, int64) {
	requestURL := fmt.Sprintf("http://localhost:%d/api/v1/contacts", serverPort)
	resBody, duration := sendRequest(http.MethodPost, requestURL, bytes.NewReader(postBody()))
	var created contact
	err := json.Unmarshal(resBody, &created)
	if err != nil {
		fmt.Println("could not unmarshal JSON", err)
		panic(err)
	}
	return created.ID, duration
}

func sendPutGetDeleteRequest(id int64, method string, bodyReader io.Reader) int64 {
	requestURL := fmt.Sprintf("http://localhost:%d/api/v1/contacts/%d", serverPort, id)
	_, duration := sendRequest(method, requestURL, bodyReader)
	return duration
}

func sendRequest(method string, requestURL string, bodyReader io.Reader) ([]byte, int64) {
	req, err := http.NewRequest(method, requestURL, bodyReader)
	if err != nil {
		fmt.Println("could not create request", err)
		panic(err)
	}
	before := time.Now().UnixNano()
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Println("error making http request", err)
		panic(err)
	}
	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		fmt.Println("could not read response body", err)
		panic(err)
	}
	after := time.Now().UnixNano()
	return resBody, after - before
}
