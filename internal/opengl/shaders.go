package opengl

// The built-in program emulates the fixed-function pipeline: per-fragment
// Blinn-Phong with up to eight eye-space lights, one material, fog, user
// clip planes and texture unit 0 modulating the lit color.

const fixedVertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec3 inNormal;
layout(location = 2) in vec2 inUV;
layout(location = 3) in vec4 inColor;

uniform mat4 u_modelView;
uniform mat4 u_projection;
uniform mat3 u_normalMatrix;

#define MAX_CLIP_PLANES 6
uniform vec4 u_clipPlanes[MAX_CLIP_PLANES];

out vec3 v_eyePos;
out vec3 v_normal;
out vec2 v_uv;
out vec4 v_color;
out float gl_ClipDistance[MAX_CLIP_PLANES];

void main() {
    vec4 eye = u_modelView * vec4(inPosition, 1.0);
    for (int i = 0; i < MAX_CLIP_PLANES; i++) {
        gl_ClipDistance[i] = dot(eye, u_clipPlanes[i]);
    }
    v_eyePos = eye.xyz;
    v_normal = u_normalMatrix * inNormal;
    v_uv = inUV;
    v_color = inColor;
    gl_Position = u_projection * eye;
}
` + "\x00"

const fixedFragSrc = `
#version 410 core
in vec3 v_eyePos;
in vec3 v_normal;
in vec2 v_uv;
in vec4 v_color;

out vec4 outColor;

#define MAX_LIGHTS 8
uniform bool  u_lighting;
uniform int   u_lightCount;
uniform vec4  u_lightPosition[MAX_LIGHTS];
uniform vec3  u_lightSpotDirection[MAX_LIGHTS];
uniform float u_lightSpotCosCutoff[MAX_LIGHTS];
uniform vec4  u_lightAmbient[MAX_LIGHTS];
uniform vec4  u_lightDiffuse[MAX_LIGHTS];
uniform vec4  u_lightSpecular[MAX_LIGHTS];
uniform vec3  u_lightAttenuation[MAX_LIGHTS];

uniform vec4  u_matAmbient;
uniform vec4  u_matDiffuse;
uniform vec4  u_matSpecular;
uniform vec4  u_matEmission;
uniform float u_matShininess;

uniform bool  u_fog;
uniform int   u_fogMode;
uniform vec4  u_fogColor;
uniform float u_fogDensity;
uniform float u_fogStart;
uniform float u_fogEnd;

uniform bool      u_useTexture0;
uniform sampler2D u_texture0;

vec4 shade(vec3 n, vec3 p) {
    vec3 v = normalize(-p);
    vec4 color = u_matEmission;
    for (int i = 0; i < MAX_LIGHTS; i++) {
        if (i >= u_lightCount) {
            break;
        }
        vec4 lp = u_lightPosition[i];
        vec3 l;
        float att = 1.0;
        if (lp.w == 0.0) {
            l = normalize(lp.xyz);
        } else {
            vec3 d = lp.xyz - p;
            float dist = length(d);
            l = d / dist;
            vec3 k = u_lightAttenuation[i];
            att = 1.0 / max(k.x + k.y * dist + k.z * dist * dist, 1e-4);
            if (u_lightSpotCosCutoff[i] > -1.0) {
                float c = dot(-l, normalize(u_lightSpotDirection[i]));
                if (c < u_lightSpotCosCutoff[i]) {
                    att = 0.0;
                }
            }
        }
        float ndl = max(dot(n, l), 0.0);
        vec4 c = u_lightAmbient[i] * u_matAmbient + ndl * u_lightDiffuse[i] * u_matDiffuse;
        if (ndl > 0.0 && u_matShininess > 0.0) {
            vec3 h = normalize(l + v);
            c += pow(max(dot(n, h), 0.0), u_matShininess) * u_lightSpecular[i] * u_matSpecular;
        }
        color += att * c;
    }
    color.a = u_matDiffuse.a;
    return color;
}

void main() {
    vec4 color = u_matDiffuse;
    if (u_lighting) {
        color = shade(normalize(v_normal), v_eyePos);
    }
    color *= v_color;
    if (u_useTexture0) {
        color *= texture(u_texture0, v_uv);
    }
    if (u_fog) {
        float z = length(v_eyePos);
        float f;
        if (u_fogMode == 0) {
            f = (u_fogEnd - z) / max(u_fogEnd - u_fogStart, 1e-4);
        } else if (u_fogMode == 1) {
            f = exp(-u_fogDensity * z);
        } else {
            f = exp(-pow(u_fogDensity * z, 2.0));
        }
        color.rgb = mix(u_fogColor.rgb, color.rgb, clamp(f, 0.0, 1.0));
    }
    outColor = color;
}
` + "\x00"
