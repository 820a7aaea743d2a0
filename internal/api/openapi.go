package api

import (
	"github.com/vigiapix/vigia/internal/config"
	"github.com/vigiapix/vigia/internal/evidence"
	"github.com/vigiapix/vigia/internal/risk"
	"github.com/vigiapix/vigia/pkg/openapi"
)

// buildSpec assembles the OpenAPI document for the API module.
func buildSpec(cfg *config.Config) *openapi.Spec {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)

	spec.Components.AddSchemas(map[string]*openapi.Schema{
		"Bundle": {
			Type:     "object",
			Required: []string{"kind"},
			Properties: map[string]*openapi.Schema{
				"kind":             {Type: "string", Enum: kindValues()},
				"raw_text":         {Type: "string", Description: "Message or receipt text"},
				"ocr_text":         {Type: "string", Description: "Text extracted from a screenshot"},
				"qr_payload":       {Type: "string", Description: "Decoded QR code payload"},
				"link_url":         {Type: "string", Description: "Suspicious link under analysis"},
				"extracted_fields": openapi.SchemaRef("Fields"),
			},
		},
		"Fields": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"candidate_key":           {Type: "string", Description: "Detected PIX key candidate"},
				"amount":                  {Type: "number", Description: "Detected transaction amount"},
				"has_urgent_language":     {Type: "boolean"},
				"has_promise_language":    {Type: "boolean"},
				"has_threat_language":     {Type: "boolean"},
				"requests_sensitive_data": {Type: "boolean"},
			},
		},
		"AnalyzeCommand": {
			Type:     "object",
			Required: []string{"type"},
			Properties: map[string]*openapi.Schema{
				"type":       {Type: "string", Enum: kindValues()},
				"input_text": {Type: "string", Description: "Message, receipt, or decoded QR text"},
				"input_url":  {Type: "string", Description: "Suspicious link under analysis"},
				"file_path":  {Type: "string", Description: "Key of a previously uploaded evidence file"},
				"metadata":   {Type: "object", Description: "Client context stored with the result"},
			},
		},
		"Assessment": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"score":           {Type: "integer", Minimum: floatPtr(0), Maximum: floatPtr(100)},
				"confidence":      {Type: "number", Minimum: floatPtr(0), Maximum: floatPtr(1)},
				"reasons":         {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"recommendations": {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"metadata":        {Type: "object"},
			},
		},
		"AnalyzeResponse": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":              {Type: "string", Format: "uuid"},
				"kind":            {Type: "string", Enum: kindValues()},
				"score":           {Type: "integer", Minimum: floatPtr(0), Maximum: floatPtr(100)},
				"risk_level":      {Type: "string", Enum: levelValues()},
				"risk_label":      {Type: "string"},
				"risk_color":      {Type: "string"},
				"confidence":      {Type: "number", Minimum: floatPtr(0), Maximum: floatPtr(1)},
				"reasons":         {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"recommendations": {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"metadata":        {Type: "object"},
				"saved":           {Type: "boolean"},
				"save_error":      {Type: "string"},
				"created_at":      {Type: "string", Format: "date-time"},
			},
		},
		"SaveCommand": {
			Type:     "object",
			Required: []string{"bundle", "assessment"},
			Properties: map[string]*openapi.Schema{
				"bundle":     openapi.SchemaRef("Bundle"),
				"assessment": openapi.SchemaRef("Assessment"),
			},
		},
		"Verification": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":               {Type: "string", Format: "uuid"},
				"user_id":          {Type: "string"},
				"kind":             {Type: "string", Enum: kindValues()},
				"raw_text":         {Type: "string", Description: "Masked evidence text"},
				"link_url":         {Type: "string"},
				"extracted_fields": openapi.SchemaRef("Fields"),
				"score":            {Type: "integer"},
				"risk_level":       {Type: "string", Enum: levelValues()},
				"confidence":       {Type: "number"},
				"reasons":          {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"recommendations":  {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"created_at":       {Type: "string", Format: "date-time"},
			},
		},
		"UploadResponse": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"key":          {Type: "string"},
				"filename":     {Type: "string"},
				"content_type": {Type: "string"},
				"size":         {Type: "integer"},
			},
		},
	})

	spec.Paths["/verifications/analyze"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Analyze a submission",
			Description: "Scores the submission and attempts to persist the result. The assessment is returned even when persistence fails.",
			Tags:        []string{"verifications"},
			RequestBody: openapi.RequestBodyJSON("AnalyzeCommand", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Assessment with persistence outcome", "AnalyzeResponse"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}

	spec.Paths["/verifications"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List the caller's verifications",
			Tags:    []string{"verifications"},
			Parameters: []*openapi.Parameter{
				openapi.QueryParam("page", "integer", "Page number", false),
				openapi.QueryParam("page_size", "integer", "Results per page", false),
				openapi.QueryParam("kind", "string", "Filter by evidence kind", false),
				openapi.QueryParam("risk_level", "string", "Filter by risk level", false),
			},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Page of verifications", "Verification"),
			},
		},
		Post: &openapi.Operation{
			Summary:     "Save a previously produced assessment",
			Description: "Retry persistence for an assessment whose save failed during analysis.",
			Tags:        []string{"verifications"},
			RequestBody: openapi.RequestBodyJSON("SaveCommand", true),
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("Stored verification", "Verification"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}

	spec.Paths["/verifications/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find a verification by id",
			Tags:       []string{"verifications"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Verification id")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Stored verification", "Verification"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/verifications/search"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Search the caller's verifications",
			Tags:        []string{"verifications"},
			RequestBody: openapi.RequestBodyJSON("PageRequest", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Page of verifications", "Verification"),
			},
		},
	}

	spec.Paths["/uploads"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary: "Upload an evidence file",
			Tags:    []string{"uploads"},
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("Stored file reference", "UploadResponse"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}

	spec.Paths["/uploads/{key}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Download an evidence file",
			Tags:       []string{"uploads"},
			Parameters: []*openapi.Parameter{{Name: "key", In: "path", Required: true, Schema: &openapi.Schema{Type: "string"}}},
			Responses: map[int]*openapi.Response{
				200: {Description: "File stream"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	return spec
}

func kindValues() []any {
	kinds := evidence.Kinds()
	values := make([]any, len(kinds))
	for i, k := range kinds {
		values[i] = string(k)
	}
	return values
}

func levelValues() []any {
	levels := risk.Levels()
	values := make([]any, len(levels))
	for i, l := range levels {
		values[i] = string(l)
	}
	return values
}

func floatPtr(v float64) *float64 {
	return &v
}
