package searchparams

// collectionsInstruction precedes the catalog text in the matcher system prompt.
// The worked examples define the inclusion rules the model must follow.
const collectionsInstruction = `Below is a dictionary of collections of satellite products.

From the prompt to come, filter the matching collections and return them as a comma separated list of ids. Give the result on one line with no decoration. Ignore every piece of information that is not relevant for collection filtering: time, place, or anything that cannot be used to discriminate between these collections.

A few examples:
"Total water over England" --> "GRAVIMETRY_TOTAL_WATER"
since it is the only collection showing "total land water"

"Lakes water level in July 2023" --> "HYDROWEB_LAKES_RESEARCH, SWOT_L2_HR_LAKESP_OBS, SWOT_L2_HR_LAKESP_PRIOR, HYDROWEB_LAKES_OPE"
SWOT_PRIOR_LAKE_DATABASE is not included since it only gives the lake shapes, not the water height

"snow over the Alps" --> "LIS_SNT_YEARLY"
since this is the only collection giving information on snow

"Water underground reserves" --> ""
since there is no matching collection

The dictionary:
`

// parametersInstruction is the extractor system prompt.
const parametersInstruction = `Generate a json string from the text to come. This json must be on one line without any decoration (only the json string should be returned and nothing else) and must have the following syntax:
{
  "bbox": [
    "Detected coordinate xll",
    "Detected coordinate yll",
    "Detected coordinate xur",
    "Detected coordinate yur"
  ],
  "start_datetime": "interval lower date",
  "end_datetime": "interval upper date"
}

If specified, the bbox is defined this way, otherwise the attribute must not appear:
"Detected coordinate xll" is the lower left longitude of the bounding box as a float
"Detected coordinate yll" is the lower left latitude of the bounding box as a float
"Detected coordinate xur" is the upper right longitude of the bounding box as a float
"Detected coordinate yur" is the upper right latitude of the bounding box as a float

All place names should be detected: towns, lakes, rivers, regions, countries, etc.
For the Pyrenees it would give for the bbox:
"bbox": [-2.406022, 41.630687, 3.327998, 43.683434]

If specified, the "interval upper date" is the higher date and time.
If specified, the "interval lower date" is the lower date and time.
Dates use the format yyyy-MM-ddTHH:mm:ss.SSSZ.
If there is no date information do not add the date interval.
For "summer 2024", it would give for the query:
"start_datetime": "2024-06-20T00:00:00.000Z", "end_datetime": "2024-09-21T23:59:59.000Z"
`

// CollectionsPrompt returns the full matcher system prompt for a catalog.
func CollectionsPrompt(catalogText string) string {
	return collectionsInstruction + catalogText
}

// ParametersPrompt returns the extractor system prompt.
func ParametersPrompt() string {
	return parametersInstruction
}
