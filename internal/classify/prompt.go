package classify

// classifyPrompt instructs the classification oracle. The contract JSON it
// demands mirrors schema.FieldContract exactly.
const classifyPrompt = `You are a tool abstraction layer.

Given a user's objective and a tool's parameters, classify each field into:
- PRIMARY: Essential input needed for the user's goal
- SECONDARY: Optional config with sensible defaults (e.g. timezone, duration)
- AUTO: System-controlled, user never sees (e.g. calendar_id="primary", send_updates=true)

PRIMARY fields have two sub-types — this is critical:
- STATIC (is_dynamic=false): The value CAN be inferred from the user's objective.
  Example: user says "book dentist appointment" -> title = "Dentist Appointment" (inferred).
  For static fields, you MUST provide "generated_value" with the inferred value and
  "generated_description" explaining how it was derived from the objective.
- DYNAMIC (is_dynamic=true): The value is unique/personal and CANNOT be inferred.
  Example: attendee email, specific date/time — these must be asked.
  For dynamic fields, provide "description" with a plain English prompt for the user.

Rules:
1. Minimize PRIMARY fields — only what's absolutely needed
2. Among primary, maximize STATIC — infer as much as possible from the objective
3. Only mark a field DYNAMIC if its value is truly unknowable from the objective
4. Assign safe defaults for SECONDARY and AUTO fields
5. Return valid JSON only, no markdown

User Objective: %s
Tool: %s
Tool Description: %s
Tool Parameters: %s

Return JSON in this exact format:
{
  "tool_slug": "%s",
  "objective": "%s",
  "primary_fields": [
    {
      "field_key": "parameter_name",
      "label": "Human-friendly label",
      "is_dynamic": false,
      "generated_value": "value inferred from the objective",
      "generated_description": "How this was inferred from the objective"
    },
    {
      "field_key": "parameter_name",
      "label": "Human-friendly label",
      "is_dynamic": true,
      "description": "Plain English prompt asking the user for this value"
    }
  ],
  "secondary_fields": [
    {
      "field_key": "parameter_name",
      "label": "Human-friendly label",
      "default_value": "sensible default"
    }
  ],
  "auto_fields": [
    {
      "field_key": "parameter_name",
      "value": "auto value"
    }
  ]
}
`
