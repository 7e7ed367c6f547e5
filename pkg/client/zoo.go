package client

import (
	"encoding/json"
	"fmt"
	"net/url"

	"zoo/pkg/model"
)

// ZooClient talks to a running zoo API. It is used by the end-to-end tests.
type ZooClient struct {
	httpClient *HttpClient
}

func NewZooClient(baseURL string) *ZooClient {
	return &ZooClient{httpClient: NewHttpClient(baseURL)}
}

func (c *ZooClient) HTTP() *HttpClient {
	return c.httpClient
}

func (c *ZooClient) Login(email, password string) (*Response, error) {
	return c.httpClient.POST("/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
}

// LoginAs logs in and keeps the access token for later calls.
func (c *ZooClient) LoginAs(email, password string) error {
	resp, err := c.Login(email, password)
	if err != nil {
		return err
	}
	var body struct {
		Data struct {
			AccessToken string `json:"accessToken"`
		} `json:"data"`
	}
	if err := resp.DecodeJSON(&body); err != nil || body.Data.AccessToken == "" {
		return fmt.Errorf("login failed: %s", resp.ToString())
	}
	c.httpClient.SetToken(body.Data.AccessToken)
	return nil
}

func (c *ZooClient) Create(resource string, body any) (*Response, error) {
	return c.httpClient.POST("/api/v1/"+resource, body)
}

func (c *ZooClient) List(resource string, query url.Values) (*Response, error) {
	path := "/api/v1/" + resource
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return c.httpClient.GET(path)
}

func (c *ZooClient) Get(resource, id string) (*Response, error) {
	return c.httpClient.GET("/api/v1/" + resource + "/" + url.PathEscape(id))
}

func (c *ZooClient) Update(resource, id string, body any) (*Response, error) {
	return c.httpClient.PUT("/api/v1/"+resource+"/"+url.PathEscape(id), body)
}

func (c *ZooClient) Patch(resource, id string, body any) (*Response, error) {
	return c.httpClient.PATCH("/api/v1/"+resource+"/"+url.PathEscape(id), body)
}

func (c *ZooClient) Delete(resource, id string) (*Response, error) {
	return c.httpClient.DELETE("/api/v1/" + resource + "/" + url.PathEscape(id))
}

func (c *ZooClient) UseTicket(id string) (*Response, error) {
	return c.httpClient.POST("/api/v1/tickets/"+url.PathEscape(id)+"/use", nil)
}

func (c *ZooClient) ExitTicket(id string) (*Response, error) {
	return c.httpClient.POST("/api/v1/tickets/"+url.PathEscape(id)+"/exit", nil)
}

func (c *ZooClient) RecordVisit(visitorID string) (*Response, error) {
	return c.httpClient.POST("/api/v1/visitors/"+url.PathEscape(visitorID)+"/visits", nil)
}

func (c *ZooClient) VisitorTickets(visitorID string) (*Response, error) {
	return c.httpClient.GET("/api/v1/visitors/" + url.PathEscape(visitorID) + "/tickets")
}

func (c *ZooClient) Me() (*Response, error) {
	return c.httpClient.GET("/api/v1/auth/me")
}

func DecodeData[T any](resp *Response) (*T, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode wrapper:\n%+v\n%s", resp.ToString(), err)
	}
	var out T
	if err := json.Unmarshal(wrapper.Data, &out); err != nil {
		return nil, fmt.Errorf("could not decode data:\n%+v\n%s", resp.ToString(), err)
	}
	return &out, nil
}

// DecodePage decodes a list response whose items live under key.
func DecodePage[T any](resp *Response, key string) ([]T, *model.Pagination, error) {
	var wrapper struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, nil, fmt.Errorf("could not decode paginated resp:\n%+v\n%s", resp.ToString(), err)
	}
	var items []T
	if err := json.Unmarshal(wrapper.Data[key], &items); err != nil {
		return nil, nil, fmt.Errorf("could not decode %s:\n%+v\n%s", key, resp.ToString(), err)
	}
	var pagination model.Pagination
	if err := json.Unmarshal(wrapper.Data["pagination"], &pagination); err != nil {
		return nil, nil, fmt.Errorf("could not decode pagination:\n%+v\n%s", resp.ToString(), err)
	}
	return items, &pagination, nil
}
