// Package docs registra la especificación OpenAPI que sirve /swagger/*.
// Regenerar con: swag init -g cmd/api/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/frequencies": {
            "get": {
                "description": "Las cinco etiquetas soportadas con su expansión (unidad, largo, dosis).",
                "produces": ["application/json"],
                "tags": ["frequencies"],
                "summary": "Menú de frecuencias",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/frequency.menuEntry"}}}
                }
            }
        },
        "/medicines": {
            "get": {
                "produces": ["application/json"],
                "tags": ["medicines"],
                "summary": "Listar medicamentos",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/medicines.medicineResponse"}}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["medicines"],
                "summary": "Crear medicamento",
                "parameters": [
                    {"description": "Medicamento", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/medicines.medicineRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/medicines.medicineResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apperr.Response"}}
                }
            }
        },
        "/medicines/{medicineID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["medicines"],
                "summary": "Obtener medicamento",
                "parameters": [{"type": "string", "name": "medicineID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/medicines.medicineResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apperr.Response"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["medicines"],
                "summary": "Actualizar medicamento",
                "parameters": [
                    {"type": "string", "name": "medicineID", "in": "path", "required": true},
                    {"description": "Medicamento", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/medicines.medicineRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/medicines.medicineResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apperr.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apperr.Response"}}
                }
            },
            "delete": {
                "tags": ["medicines"],
                "summary": "Borrar medicamento",
                "parameters": [{"type": "string", "name": "medicineID", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apperr.Response"}},
                    "409": {"description": "referenciado por schedules o registros", "schema": {"$ref": "#/definitions/apperr.Response"}}
                }
            }
        },
        "/groups": {
            "get": {
                "produces": ["application/json"],
                "tags": ["groups"],
                "summary": "Listar grupos",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/groups.groupResponse"}}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["groups"],
                "summary": "Crear grupo",
                "parameters": [
                    {"description": "Grupo", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/groups.groupRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/groups.groupResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apperr.Response"}}
                }
            }
        },
        "/groups/{groupID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["groups"],
                "summary": "Obtener grupo",
                "parameters": [{"type": "string", "name": "groupID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/groups.groupResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apperr.Response"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["groups"],
                "summary": "Actualizar grupo",
                "parameters": [
                    {"type": "string", "name": "groupID", "in": "path", "required": true},
                    {"description": "Grupo", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/groups.groupRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/groups.groupResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apperr.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apperr.Response"}}
                }
            },
            "delete": {
                "tags": ["groups"],
                "summary": "Borrar grupo",
                "parameters": [{"type": "string", "name": "groupID", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apperr.Response"}},
                    "409": {"description": "referenciado por dosis o registros", "schema": {"$ref": "#/definitions/apperr.Response"}}
                }
            }
        },
        "/schedules": {
            "get": {
                "produces": ["application/json"],
                "tags": ["schedules"],
                "summary": "Listar schedules",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/schedules.scheduleResponse"}}}
                }
            },
            "post": {
                "description": "Crea un schedule desde una etiqueta de frecuencia. Con \"medicine\" en el body crea antes el medicamento.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["schedules"],
                "summary": "Crear schedule",
                "parameters": [
                    {"description": "Schedule", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/schedules.createScheduleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/schedules.createScheduleResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apperr.Response"}},
                    "422": {"description": "medicamento o grupo inexistente", "schema": {"$ref": "#/definitions/apperr.Response"}}
                }
            }
        },
        "/schedules/{scheduleID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["schedules"],
                "summary": "Obtener schedule",
                "parameters": [{"type": "string", "name": "scheduleID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/schedules.scheduleResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apperr.Response"}}
                }
            },
            "patch": {
                "description": "Solo start_date / end_date; end_date null quita el fin.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["schedules"],
                "summary": "Editar fechas",
                "parameters": [
                    {"type": "string", "name": "scheduleID", "in": "path", "required": true},
                    {"description": "Fechas", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/schedules.patchDatesRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/schedules.scheduleResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apperr.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apperr.Response"}}
                }
            },
            "delete": {
                "description": "Borra registros programados, dosis y schedule de forma atómica.",
                "tags": ["schedules"],
                "summary": "Borrar schedule",
                "parameters": [{"type": "string", "name": "scheduleID", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apperr.Response"}}
                }
            }
        },
        "/days/{day}": {
            "get": {
                "description": "Dosis programadas activas ese día y tomas puntuales, particionadas por grupo.",
                "produces": ["application/json"],
                "tags": ["days"],
                "summary": "Dosis del día",
                "parameters": [{"type": "string", "description": "YYYY-MM-DD o today", "name": "day", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/due.dayResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apperr.Response"}},
                    "422": {"description": "schedule con medicamento inexistente", "schema": {"$ref": "#/definitions/apperr.Response"}}
                }
            }
        },
        "/days/{day}/schedules/{scheduleID}/doses/{index}/toggle": {
            "post": {
                "description": "Marca o desmarca la dosis y ajusta el recordatorio del grupo.",
                "produces": ["application/json"],
                "tags": ["days"],
                "summary": "Toggle de dosis",
                "parameters": [
                    {"type": "string", "name": "day", "in": "path", "required": true},
                    {"type": "string", "name": "scheduleID", "in": "path", "required": true},
                    {"type": "integer", "name": "index", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/reminders.toggleResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apperr.Response"}},
                    "422": {"description": "schedule o índice inexistente", "schema": {"$ref": "#/definitions/apperr.Response"}}
                }
            }
        },
        "/reminders": {
            "get": {
                "description": "Grupos con recordatorio programado y su próximo disparo, ordenados por disparo.",
                "produces": ["application/json"],
                "tags": ["reminders"],
                "summary": "Recordatorios armados",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/reminders.armedResponse"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/apperr.Response"}}
                }
            }
        },
        "/intakes": {
            "get": {
                "produces": ["application/json"],
                "tags": ["intakes"],
                "summary": "Registros por rango",
                "parameters": [
                    {"type": "string", "name": "from", "in": "query"},
                    {"type": "string", "name": "to", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/intake.recordsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apperr.Response"}}
                }
            }
        },
        "/intakes/unscheduled": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["intakes"],
                "summary": "Registrar toma puntual",
                "parameters": [
                    {"description": "Toma", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/intake.unscheduledRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/intake.unscheduledResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apperr.Response"}},
                    "422": {"description": "medicamento o grupo inexistente", "schema": {"$ref": "#/definitions/apperr.Response"}}
                }
            }
        },
        "/intakes/unscheduled/{recordID}": {
            "delete": {
                "tags": ["intakes"],
                "summary": "Borrar toma puntual",
                "parameters": [{"type": "string", "name": "recordID", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apperr.Response"}}
                }
            }
        },
        "/reports/intake": {
            "get": {
                "description": "headers[0] es \"Date\", luego etiquetas en orden lexicográfico; filas por día descendente.",
                "produces": ["application/json"],
                "tags": ["reports"],
                "summary": "Reporte de principios activos por día",
                "parameters": [
                    {"type": "string", "name": "from", "in": "query"},
                    {"type": "string", "name": "to", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/reporting.Table"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apperr.Response"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/apperr.Response"}}
                }
            }
        }
    },
    "definitions": {
        "apperr.Response": {
            "type": "object",
            "properties": {
                "code": {"type": "string", "example": "VALIDATION"},
                "message": {"type": "string"},
                "fields": {"type": "array", "items": {"type": "string"}}
            }
        },
        "frequency.menuEntry": {
            "type": "object",
            "properties": {
                "label": {"type": "string", "example": "twice_daily"},
                "interval_unit": {"type": "string", "example": "day"},
                "interval_length": {"type": "integer", "example": 1},
                "number_of_doses": {"type": "integer", "example": 2}
            }
        },
        "medicines.ActiveIngredient": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "amount": {"type": "number"},
                "unit": {"type": "string", "enum": ["mg", "g", "µg", "IU", "unit"]}
            }
        },
        "medicines.medicineRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "base_unit": {"type": "string", "example": "tablet"},
                "active_ingredients": {"type": "array", "items": {"$ref": "#/definitions/medicines.ActiveIngredient"}}
            }
        },
        "medicines.medicineResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "base_unit": {"type": "string"},
                "active_ingredients": {"type": "array", "items": {"$ref": "#/definitions/medicines.ActiveIngredient"}}
            }
        },
        "groups.groupRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "color": {"type": "string", "example": "#FFFF64FF"},
                "is_reminder_on": {"type": "boolean"},
                "reminder_time": {"type": "string", "example": "08:30"}
            }
        },
        "groups.groupResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "color": {"type": "string"},
                "is_reminder_on": {"type": "boolean"},
                "reminder_time": {"type": "string"}
            }
        },
        "schedules.doseRequest": {
            "type": "object",
            "properties": {
                "amount": {"type": "number"},
                "offset": {"type": "integer"},
                "group_id": {"type": "string"}
            }
        },
        "schedules.doseResponse": {
            "type": "object",
            "properties": {
                "index": {"type": "integer"},
                "amount": {"type": "number"},
                "offset": {"type": "integer"},
                "group_id": {"type": "string"}
            }
        },
        "schedules.createScheduleRequest": {
            "type": "object",
            "properties": {
                "medicine_id": {"type": "string"},
                "medicine": {"$ref": "#/definitions/medicines.medicineRequest"},
                "start_date": {"type": "string", "example": "2024-01-01"},
                "end_date": {"type": "string", "example": "2024-01-10"},
                "frequency": {"type": "string", "example": "twice_daily"},
                "doses": {"type": "array", "items": {"$ref": "#/definitions/schedules.doseRequest"}}
            }
        },
        "schedules.patchDatesRequest": {
            "type": "object",
            "properties": {
                "start_date": {"type": "string", "example": "2024-01-01"},
                "end_date": {"type": "string", "example": "2024-01-10"}
            }
        },
        "schedules.scheduleResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "medicine_id": {"type": "string"},
                "start_date": {"type": "string"},
                "end_date": {"type": "string"},
                "frequency": {"type": "string"},
                "freq": {
                    "type": "object",
                    "properties": {
                        "intervalUnit": {"type": "string"},
                        "intervalLength": {"type": "integer"},
                        "numberOfDoses": {"type": "integer"}
                    }
                },
                "doses": {"type": "array", "items": {"$ref": "#/definitions/schedules.doseResponse"}}
            }
        },
        "schedules.createScheduleResponse": {
            "type": "object",
            "properties": {
                "schedule": {"$ref": "#/definitions/schedules.scheduleResponse"},
                "created_medicine_id": {"type": "string"}
            }
        },
        "due.dueDoseResponse": {
            "type": "object",
            "properties": {
                "medicine_id": {"type": "string"},
                "medicine_name": {"type": "string"},
                "base_unit": {"type": "string"},
                "amount": {"type": "number"},
                "dose_index": {"type": "integer"},
                "schedule_id": {"type": "string"},
                "record_id": {"type": "string"},
                "is_done": {"type": "boolean"}
            }
        },
        "due.bucketResponse": {
            "type": "object",
            "properties": {
                "group_id": {"type": "string"},
                "name": {"type": "string"},
                "complete": {"type": "boolean"},
                "pending": {"type": "integer"},
                "scheduled": {"type": "array", "items": {"$ref": "#/definitions/due.dueDoseResponse"}},
                "unscheduled": {"type": "array", "items": {"$ref": "#/definitions/due.dueDoseResponse"}}
            }
        },
        "due.dayResponse": {
            "type": "object",
            "properties": {
                "day": {"type": "string"},
                "groups": {"type": "array", "items": {"$ref": "#/definitions/due.bucketResponse"}}
            }
        },
        "reminders.toggleResponse": {
            "type": "object",
            "properties": {
                "done": {"type": "boolean"},
                "record_id": {"type": "string"},
                "group_id": {"type": "string"},
                "group_complete": {"type": "boolean"},
                "transition": {"type": "string", "enum": ["none", "completed", "reopened"]}
            }
        },
        "reminders.armedResponse": {
            "type": "object",
            "properties": {
                "group_id": {"type": "string"},
                "name": {"type": "string"},
                "reminder_time": {"type": "string", "example": "08:00"},
                "next": {"type": "string", "format": "date-time"}
            }
        },
        "intake.unscheduledRequest": {
            "type": "object",
            "properties": {
                "medicine_id": {"type": "string"},
                "amount": {"type": "number"},
                "day": {"type": "string", "example": "2024-01-05"},
                "group_id": {"type": "string"}
            }
        },
        "intake.unscheduledResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "medicine_id": {"type": "string"},
                "amount": {"type": "number"},
                "day": {"type": "string"},
                "record_date": {"type": "string"},
                "group_id": {"type": "string"}
            }
        },
        "intake.scheduledResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "schedule_id": {"type": "string"},
                "dose_index": {"type": "integer"},
                "day": {"type": "string"},
                "record_date": {"type": "string"}
            }
        },
        "intake.recordsResponse": {
            "type": "object",
            "properties": {
                "scheduled": {"type": "array", "items": {"$ref": "#/definitions/intake.scheduledResponse"}},
                "unscheduled": {"type": "array", "items": {"$ref": "#/definitions/intake.unscheduledResponse"}}
            }
        },
        "reporting.Table": {
            "type": "object",
            "properties": {
                "headers": {"type": "array", "items": {"type": "string"}},
                "rows": {"type": "array", "items": {"type": "array", "items": {"type": "string"}}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "therapy-track API",
	Description:      "Seguimiento de medicación: catálogo, schedules, dosis del día, registros de toma y reportes.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
