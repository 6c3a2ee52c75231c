// Package docs API文档,由swag按handler上的注解维护
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/api/v1/users/register": {"post": {"tags": ["users"], "summary": "用户注册"}},
        "/api/v1/users/login": {"post": {"tags": ["users"], "summary": "用户登录,携带X-Cart-Session时合并访客购物车"}},
        "/api/v1/users/logout": {"post": {"tags": ["users"], "summary": "登出,购物车会话切回访客态", "security": [{"BearerAuth": []}]}},
        "/api/v1/users/refresh": {"post": {"tags": ["users"], "summary": "刷新Access Token"}},
        "/api/v1/users/me": {"get": {"tags": ["users"], "summary": "当前用户", "security": [{"BearerAuth": []}]}},
        "/api/v1/books": {
            "get": {"tags": ["books"], "summary": "图书列表"},
            "post": {"tags": ["books"], "summary": "发布图书", "security": [{"BearerAuth": []}]}
        },
        "/api/v1/books/{id}": {"get": {"tags": ["books"], "summary": "图书详情"}},
        "/api/v1/books/{id}/active": {"patch": {"tags": ["books"], "summary": "上下架", "security": [{"BearerAuth": []}]}},
        "/api/v1/cart": {
            "get": {"tags": ["cart"], "summary": "查看购物车"},
            "delete": {"tags": ["cart"], "summary": "清空购物车"}
        },
        "/api/v1/cart/items": {"post": {"tags": ["cart"], "summary": "加入购物车"}},
        "/api/v1/cart/items/{book_id}": {
            "patch": {"tags": ["cart"], "summary": "修改数量,0为移除"},
            "delete": {"tags": ["cart"], "summary": "移除商品"}
        },
        "/api/v1/cart/shipping": {"put": {"tags": ["cart"], "summary": "选择配送方式"}},
        "/api/v1/orders/checkout": {"post": {"tags": ["orders"], "summary": "购物车结算下单", "security": [{"BearerAuth": []}]}},
        "/api/v1/orders": {"get": {"tags": ["orders"], "summary": "订单列表", "security": [{"BearerAuth": []}]}},
        "/api/v1/orders/{order_no}": {"get": {"tags": ["orders"], "summary": "订单详情", "security": [{"BearerAuth": []}]}},
        "/api/v1/orders/{order_no}/cancel": {"post": {"tags": ["orders"], "summary": "取消订单", "security": [{"BearerAuth": []}]}}
    }
}`

// SwaggerInfo 文档元信息
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Storefront API",
	Description:      "图书商城:目录、购物车、订单",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
