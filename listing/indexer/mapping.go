package indexer

// Mapping is the listing index definition. Text fields carry a keyword
// sub-field for facets and containment filters.
const Mapping = `{
  "settings": {
    "number_of_shards": 1,
    "number_of_replicas": 1
  },
  "mappings": {
    "properties": {
      "id":                  {"type": "keyword"},
      "title":               {"type": "text", "fields": {"keyword": {"type": "keyword", "ignore_above": 256}}},
      "description":         {"type": "text"},
      "category": {
        "properties": {
          "id":   {"type": "keyword"},
          "name": {"type": "text", "fields": {"keyword": {"type": "keyword", "ignore_above": 256}}},
          "slug": {"type": "keyword"}
        }
      },
      "city":                {"type": "text", "fields": {"keyword": {"type": "keyword", "ignore_above": 256}}},
      "state":               {"type": "text", "fields": {"keyword": {"type": "keyword", "ignore_above": 256}}},
      "country":             {"type": "text", "fields": {"keyword": {"type": "keyword", "ignore_above": 256}}},
      "location":            {"type": "geo_point"},
      "base_price":          {"type": "double"},
      "currency":            {"type": "keyword"},
      "status":              {"type": "keyword"},
      "verification_status": {"type": "keyword"},
      "average_rating":      {"type": "double"},
      "review_count":        {"type": "integer"},
      "booking_mode":        {"type": "keyword"},
      "condition":           {"type": "keyword"},
      "features":            {"type": "keyword"},
      "owner": {
        "properties": {
          "id":           {"type": "keyword"},
          "display_name": {"type": "text"},
          "rating":       {"type": "double"}
        }
      },
      "created_at":          {"type": "date"}
    }
  }
}`
