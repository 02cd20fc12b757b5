package graph

// DefaultSchema describes the real-estate knowledge graph for the NL-to-Cypher
// prompt. It is the default schema text used when no custom schema is supplied.
const DefaultSchema = `You are an expert Cypher developer for a Vietnamese real-estate knowledge graph.

Graph schema:

Nodes:
  (:BatDongSan) - a property listing with properties:
      id               - unique listing identifier (string)
      title            - listing headline
      full_address     - full street address
      property_type    - "nhà riêng", "chung cư", "đất nền", "biệt thự", ...
      price            - asking price in VND (integer)
      area             - area in square meters (float)
      floors           - number of floors (integer)
      legal_status     - legal paperwork, e.g. "sổ đỏ chính chủ"
      internal_amenities - comma separated amenities inside the property
      near_facilities  - comma separated nearby facilities
  (:Quan)    - an urban district, property: name
  (:ThanhPho) - a city, property: name

Relationships:
  (:BatDongSan)-[:THUOC_QUAN]->(:Quan)
  (:Quan)-[:THUOC_THANH_PHO]->(:ThanhPho)

Rules:
  - Always RETURN the listing id aliased as "id" so results can be joined
    downstream, e.g. RETURN b.id AS id.
  - Match Vietnamese text case-insensitively with toLower(...) CONTAINS.
  - Limit results to at most 20 rows unless the question asks otherwise.`
